// Package binder decodes HTTP request data into Go structs for handler.Wrap.
//
// Three binders are provided:
//
//   - JSON(): strict JSON bodies (unknown fields and trailing data rejected,
//     1MB limit)
//   - Form(): urlencoded and multipart form values bound through `form` tags
//   - Query(): URL query parameters bound through `query` tags
//
// A binder that has nothing to read from the request returns
// ErrBinderNotApplicable, so several binders can be chained:
//
//	handler.Wrap(h, handler.WithBinders[handler.Context, Req](
//	    binder.JSON(),
//	    binder.Form(),
//	    binder.Query(),
//	))
//
// Binders only decode. HTML encoding of the decoded payload is performed by
// handler.Wrap through pkg/sanitizer once all binders have run, so every
// source is covered by the same pass.
//
// # Error Handling
//
// Failures wrap one of ErrUnsupportedMediaType, ErrMissingContentType,
// ErrFailedToParseJSON, ErrFailedToParseForm or ErrFailedToParseQuery and can be
// matched with errors.Is.
package binder
