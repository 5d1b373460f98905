package sanitizer_test

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/xssguard/pkg/sanitizer"
)

type item struct {
	Title string
}

type node struct {
	Name string
	Next *node
}

type pair struct {
	Label string
	Peer  *pair
}

type countingEncoder struct {
	mu    sync.Mutex
	calls map[string]int
}

func newCountingEncoder() *countingEncoder {
	return &countingEncoder{calls: make(map[string]int)}
}

func (c *countingEncoder) Encode(s string) string {
	c.mu.Lock()
	c.calls[s]++
	c.mu.Unlock()
	return sanitizer.EscapeHTML(s)
}

func (c *countingEncoder) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

func TestSanitize_MappingEncodedOnce(t *testing.T) {
	t.Parallel()

	enc := newCountingEncoder()
	s := sanitizer.New(sanitizer.WithEncoder(enc.Encode))

	payload := map[string]string{"a": "<b>"}
	s.Sanitize(payload)

	assert.Equal(t, map[string]string{"a": "&lt;b&gt;"}, payload)
	assert.Equal(t, 1, enc.calls["<b>"])
	assert.Equal(t, 1, enc.total())
}

func TestSanitize_Cycles(t *testing.T) {
	t.Parallel()

	t.Run("self reference", func(t *testing.T) {
		t.Parallel()
		n := &node{Name: "<a>"}
		n.Next = n

		report := sanitizer.New().SanitizeContext(context.Background(), n)

		assert.Equal(t, "&lt;a&gt;", n.Name)
		assert.Same(t, n, n.Next)
		assert.Equal(t, 1, report.Encoded)
		assert.False(t, report.Truncated)
	})

	t.Run("two node cycle", func(t *testing.T) {
		t.Parallel()
		a := &pair{Label: "<a>"}
		b := &pair{Label: "<b>", Peer: a}
		a.Peer = b

		report := sanitizer.New().SanitizeContext(context.Background(), a)

		assert.Equal(t, "&lt;a&gt;", a.Label)
		assert.Equal(t, "&lt;b&gt;", b.Label)
		assert.Equal(t, 2, report.Encoded)
		assert.Equal(t, 2, report.Nodes)
	})

	t.Run("slice containing its owner", func(t *testing.T) {
		t.Parallel()
		type bag struct {
			Name  string
			Items []any
		}
		b := &bag{Name: "<bag>"}
		b.Items = []any{b, "<loose>"}

		sanitizer.Sanitize(b)

		assert.Equal(t, "&lt;bag&gt;", b.Name)
		assert.Equal(t, "&lt;loose&gt;", b.Items[1])
	})
}

func TestSanitize_SharedSubstructure(t *testing.T) {
	t.Parallel()

	enc := newCountingEncoder()
	s := sanitizer.New(sanitizer.WithEncoder(enc.Encode))

	shared := &item{Title: "<x>"}
	payload := map[string]*item{"first": shared, "second": shared}

	report := s.SanitizeContext(context.Background(), payload)

	assert.Equal(t, "&lt;x&gt;", shared.Title)
	assert.NotContains(t, shared.Title, "&amp;")
	assert.Equal(t, 1, enc.calls["<x>"])
	assert.Equal(t, 1, report.Encoded)
}

func TestSanitize_StringReachableInlineAndByPointer(t *testing.T) {
	t.Parallel()

	type profile struct {
		Name  string
		Alias *string
	}
	p := &profile{Name: "<me>"}
	p.Alias = &p.Name

	report := sanitizer.New().SanitizeContext(context.Background(), p)

	assert.Equal(t, "&lt;me&gt;", p.Name)
	assert.Equal(t, 1, report.Encoded)
}

// collectingEncoder escapes like EscapeHTML and runs the garbage collector
// every few hundred calls, so temporaries from earlier map entries are freed
// while the walk is still in progress.
func collectingEncoder() sanitizer.Encoder {
	var n int
	return func(s string) string {
		n++
		if n%500 == 0 {
			runtime.GC()
		}
		return sanitizer.EscapeHTML(s)
	}
}

func TestSanitize_LargeMapsFullyEncoded(t *testing.T) {
	t.Parallel()

	const entries = 20000

	t.Run("decoded json object", func(t *testing.T) {
		t.Parallel()

		var raw strings.Builder
		raw.WriteString(`{"meta":{`)
		for i := range entries {
			if i > 0 {
				raw.WriteByte(',')
			}
			fmt.Fprintf(&raw, `"k%d":"<i>"`, i)
		}
		raw.WriteString(`}}`)

		var req struct {
			Meta map[string]any `json:"meta"`
		}
		require.NoError(t, json.Unmarshal([]byte(raw.String()), &req))

		s := sanitizer.New(sanitizer.WithEncoder(collectingEncoder()))
		report := s.SanitizeContext(context.Background(), &req)

		assert.Equal(t, entries, report.Encoded)
		for k, v := range req.Meta {
			require.Equal(t, "&lt;i&gt;", v, k)
		}
	})

	t.Run("struct values", func(t *testing.T) {
		t.Parallel()

		payload := make(map[int]item, entries)
		for i := range entries {
			payload[i] = item{Title: "<b>"}
		}

		s := sanitizer.New(sanitizer.WithEncoder(collectingEncoder()))
		report := s.SanitizeContext(context.Background(), payload)

		assert.Equal(t, entries, report.Encoded)
		for k, v := range payload {
			require.NotContains(t, v.Title, "<", k)
		}
	})
}

type note struct{ body string }

func (n *note) DescribeFields() []sanitizer.Field {
	return []sanitizer.Field{{Name: "Body", Value: n.body, Set: func(v string) { n.body = v }}}
}

func TestSanitize_DescriberReachableTwice(t *testing.T) {
	t.Parallel()

	type thread struct {
		All   []note
		First *note
	}
	th := &thread{All: []note{{body: "<b>"}, {body: "<i>"}}}
	th.First = &th.All[0]

	report := sanitizer.New().SanitizeContext(context.Background(), th)

	assert.Equal(t, "&lt;b&gt;", th.All[0].body)
	assert.Equal(t, "&lt;i&gt;", th.All[1].body)
	assert.Equal(t, 2, report.Encoded)
}

func TestSanitize_InterfaceKeyOrder(t *testing.T) {
	t.Parallel()

	var seen []string
	s := sanitizer.New(sanitizer.WithEncoder(func(v string) string {
		seen = append(seen, v)
		return v
	}))

	for range 20 {
		seen = seen[:0]
		s.Sanitize(map[any]string{1: "int", "1": "string", 1.5: "float", true: "bool"})
		assert.Equal(t, []string{"bool", "float", "int", "string"}, seen)
	}
}

func TestSanitize_TypeBoundaries(t *testing.T) {
	t.Parallel()

	type label string
	type form struct {
		Count     int
		Ratio     float64
		Enabled   bool
		CreatedAt time.Time
		Plain     string
		Digits    string
		Kind      label
		Optional  *string
		Missing   *string
	}

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	optional := "<opt>"
	f := &form{
		Count:     5,
		Ratio:     1.5,
		Enabled:   true,
		CreatedAt: created,
		Plain:     "<script>",
		Digits:    "5",
		Kind:      "<k>",
		Optional:  &optional,
	}

	sanitizer.Sanitize(f)

	assert.Equal(t, 5, f.Count)
	assert.Equal(t, 1.5, f.Ratio)
	assert.True(t, f.Enabled)
	assert.True(t, created.Equal(f.CreatedAt))
	assert.Equal(t, "&lt;script&gt;", f.Plain)
	assert.Equal(t, "5", f.Digits)
	assert.Equal(t, label("&lt;k&gt;"), f.Kind)
	assert.Equal(t, "&lt;opt&gt;", optional)
	assert.Nil(t, f.Missing)
}

type guarded struct {
	email string
	id    string
	tags  []string
}

func (g *guarded) DescribeFields() []sanitizer.Field {
	return []sanitizer.Field{
		{Name: "Email", Value: g.email, Set: func(v string) { g.email = v }},
		{Name: "ID", Value: g.id},
		{Name: "Tags", Value: g.tags},
	}
}

func TestSanitize_ReadOnlyFieldsSkipped(t *testing.T) {
	t.Parallel()

	t.Run("struct tag", func(t *testing.T) {
		t.Parallel()
		type doc struct {
			Body     string
			Checksum string `sanitize:"readonly"`
			Raw      *item  `sanitize:"-"`
		}
		d := &doc{Body: "<p>", Checksum: "<img>", Raw: &item{Title: "<raw>"}}

		report := sanitizer.New().SanitizeContext(context.Background(), d)

		assert.Equal(t, "&lt;p&gt;", d.Body)
		assert.Equal(t, "<img>", d.Checksum)
		assert.Equal(t, "<raw>", d.Raw.Title)
		assert.Equal(t, 1, report.Skipped)
	})

	t.Run("unexported field", func(t *testing.T) {
		t.Parallel()
		type secret struct {
			Public  string
			private string
		}
		v := &secret{Public: "<a>", private: "<img>"}

		assert.NotPanics(t, func() { sanitizer.Sanitize(v) })
		assert.Equal(t, "&lt;a&gt;", v.Public)
		assert.Equal(t, "<img>", v.private)
	})

	t.Run("describer without setter", func(t *testing.T) {
		t.Parallel()
		g := &guarded{email: "<e>", id: "<img>", tags: []string{"<t>"}}

		report := sanitizer.New().SanitizeContext(context.Background(), g)

		assert.Equal(t, "&lt;e&gt;", g.email)
		assert.Equal(t, "<img>", g.id)
		assert.Equal(t, []string{"&lt;t&gt;"}, g.tags)
		assert.Equal(t, 1, report.Skipped)
	})

	t.Run("struct passed by value", func(t *testing.T) {
		t.Parallel()
		v := item{Title: "<img>"}

		assert.NotPanics(t, func() { sanitizer.Sanitize(v) })
		assert.Equal(t, "<img>", v.Title)
	})
}

func TestSanitize_Collections(t *testing.T) {
	t.Parallel()

	t.Run("sequence of composites", func(t *testing.T) {
		t.Parallel()
		items := []*item{{Title: "<a>"}, {Title: "<b>"}, {Title: "<c>"}}

		sanitizer.Sanitize(items)

		assert.Equal(t, "&lt;a&gt;", items[0].Title)
		assert.Equal(t, "&lt;b&gt;", items[1].Title)
		assert.Equal(t, "&lt;c&gt;", items[2].Title)
	})

	t.Run("sequence of values", func(t *testing.T) {
		t.Parallel()
		items := []item{{Title: "<a>"}, {Title: "<b>"}}
		tags := [2]string{"<x>", "y"}
		payload := &struct {
			Items []item
			Tags  [2]string
		}{Items: items, Tags: tags}

		sanitizer.Sanitize(payload)

		assert.Equal(t, "&lt;a&gt;", items[0].Title)
		assert.Equal(t, "&lt;b&gt;", items[1].Title)
		assert.Equal(t, [2]string{"&lt;x&gt;", "y"}, payload.Tags)
	})

	t.Run("mapping keeps keys", func(t *testing.T) {
		t.Parallel()
		byValue := map[string]item{"<k1>": {Title: "<a>"}, "<k2>": {Title: "<b>"}}
		byRef := map[string]*item{"<k3>": {Title: "<c>"}}

		sanitizer.Sanitize(byValue)
		sanitizer.Sanitize(byRef)

		assert.Equal(t, map[string]item{
			"<k1>": {Title: "&lt;a&gt;"},
			"<k2>": {Title: "&lt;b&gt;"},
		}, byValue)
		require.Contains(t, byRef, "<k3>")
		assert.Equal(t, "&lt;c&gt;", byRef["<k3>"].Title)
	})

	t.Run("decoded JSON", func(t *testing.T) {
		t.Parallel()
		var payload any
		require.NoError(t, json.Unmarshal([]byte(`{
			"name": "<b>bold</b>",
			"age": 42,
			"tags": ["<i>", "plain", 7],
			"nested": {"<key>": "<val>"}
		}`), &payload))

		sanitizer.Sanitize(&payload)

		m := payload.(map[string]any)
		assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", m["name"])
		assert.Equal(t, float64(42), m["age"])
		assert.Equal(t, []any{"&lt;i&gt;", "plain", float64(7)}, m["tags"])
		assert.Equal(t, map[string]any{"<key>": "&lt;val&gt;"}, m["nested"])
	})

	t.Run("interface field holding a struct", func(t *testing.T) {
		t.Parallel()
		payload := &struct{ Payload any }{Payload: item{Title: "<s>"}}

		sanitizer.Sanitize(payload)

		assert.Equal(t, item{Title: "&lt;s&gt;"}, payload.Payload)
	})
}

func TestSanitize_EmptyStringsUntouched(t *testing.T) {
	t.Parallel()

	enc := newCountingEncoder()
	s := sanitizer.New(sanitizer.WithEncoder(enc.Encode))

	payload := &struct {
		Empty string
		Items []string
		Index map[string]string
	}{Items: []string{""}, Index: map[string]string{"k": ""}}

	s.Sanitize(payload)

	assert.Zero(t, enc.total())
	assert.Equal(t, "", payload.Empty)
	assert.Equal(t, map[string]string{"k": ""}, payload.Index)
}

func TestSanitize_DepthGuard(t *testing.T) {
	t.Parallel()

	var head *node
	for i := 49; i >= 0; i-- {
		head = &node{Name: "<n>", Next: head}
	}

	s := sanitizer.New(sanitizer.WithMaxDepth(10))

	var report sanitizer.Report
	require.NotPanics(t, func() {
		report = s.SanitizeContext(context.Background(), head)
	})

	assert.True(t, report.Truncated)
	assert.Equal(t, 5, report.Encoded)
	assert.Equal(t, "&lt;n&gt;", head.Name)

	tail := head
	for tail.Next != nil {
		tail = tail.Next
	}
	assert.Equal(t, "<n>", tail.Name)
}

func TestSanitize_DegenerateRoots(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		sanitizer.Sanitize(nil)
		sanitizer.Sanitize("<b>")
		sanitizer.Sanitize(42)
		sanitizer.Sanitize((*item)(nil))
		sanitizer.Sanitize(map[string]string(nil))
		sanitizer.Sanitize(make(chan int))
		sanitizer.Sanitize(func() {})
	})

	raw := "<b>"
	sanitizer.Sanitize(&raw)
	assert.Equal(t, "&lt;b&gt;", raw)

	assert.Equal(t, "&lt;b&gt;", sanitizer.SanitizeString("<b>"))
	assert.Equal(t, "", sanitizer.SanitizeString(""))
}

func TestSanitize_FreshStatePerCall(t *testing.T) {
	t.Parallel()

	s := sanitizer.New()
	shared := &item{Title: "<a>"}

	first := s.SanitizeContext(context.Background(), shared)
	shared.Title = "<b>"
	second := s.SanitizeContext(context.Background(), shared)

	assert.Equal(t, 1, first.Encoded)
	assert.Equal(t, 1, second.Encoded)
	assert.Equal(t, "&lt;b&gt;", shared.Title)
}

func TestSanitize_Concurrent(t *testing.T) {
	t.Parallel()

	s := sanitizer.New()

	var wg sync.WaitGroup
	results := make([]*node, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n := &node{Name: "<c>"}
			n.Next = n
			s.Sanitize(n)
			results[i] = n
		}(i)
	}
	wg.Wait()

	for _, n := range results {
		assert.Equal(t, "&lt;c&gt;", n.Name)
	}
}
