package router

import "context"

// Handler is the type-erased form stored in the route table.
type Handler interface {
	Invoke(ctx context.Context, req Request, state any) Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req Request, state any) Response

func (f HandlerFunc) Invoke(ctx context.Context, req Request, state any) Response {
	return f(ctx, req, state)
}

// The HandleN constructors bind N extractors to a function taking their
// results positionally. Extractors run in order and the first rejection is
// returned as the response without calling fn.

func Handle0[R any](fn func(ctx context.Context) R) Handler {
	return HandlerFunc(func(ctx context.Context, _ Request, _ any) Response {
		return IntoResponse(fn(ctx))
	})
}

func Handle1[A, R any](a Extractor[A], fn func(context.Context, A) R) Handler {
	return HandlerFunc(func(ctx context.Context, req Request, state any) Response {
		va, err := a.Extract(req, state)
		if err != nil {
			return errorResponse(err)
		}
		return IntoResponse(fn(ctx, va))
	})
}

func Handle2[A, B, R any](a Extractor[A], b Extractor[B], fn func(context.Context, A, B) R) Handler {
	return HandlerFunc(func(ctx context.Context, req Request, state any) Response {
		va, err := a.Extract(req, state)
		if err != nil {
			return errorResponse(err)
		}
		vb, err := b.Extract(req, state)
		if err != nil {
			return errorResponse(err)
		}
		return IntoResponse(fn(ctx, va, vb))
	})
}

func Handle3[A, B, C, R any](
	a Extractor[A],
	b Extractor[B],
	c Extractor[C],
	fn func(context.Context, A, B, C) R,
) Handler {
	return HandlerFunc(func(ctx context.Context, req Request, state any) Response {
		va, err := a.Extract(req, state)
		if err != nil {
			return errorResponse(err)
		}
		vb, err := b.Extract(req, state)
		if err != nil {
			return errorResponse(err)
		}
		vc, err := c.Extract(req, state)
		if err != nil {
			return errorResponse(err)
		}
		return IntoResponse(fn(ctx, va, vb, vc))
	})
}

func Handle4[A, B, C, D, R any](
	a Extractor[A],
	b Extractor[B],
	c Extractor[C],
	d Extractor[D],
	fn func(context.Context, A, B, C, D) R,
) Handler {
	return HandlerFunc(func(ctx context.Context, req Request, state any) Response {
		va, err := a.Extract(req, state)
		if err != nil {
			return errorResponse(err)
		}
		vb, err := b.Extract(req, state)
		if err != nil {
			return errorResponse(err)
		}
		vc, err := c.Extract(req, state)
		if err != nil {
			return errorResponse(err)
		}
		vd, err := d.Extract(req, state)
		if err != nil {
			return errorResponse(err)
		}
		return IntoResponse(fn(ctx, va, vb, vc, vd))
	})
}
