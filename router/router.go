// Package router dispatches classified connection frames to typed handlers.
//
// Handlers are registered per FrameKind and declare their inputs as
// extractors:
//
//	r := router.New(router.WithState(app))
//	r.Text(router.Handle2(router.JSONBody[Order](), router.State[*App](),
//	    func(ctx context.Context, o Order, app *App) router.Responder {
//	        return router.Result(app.Place(ctx, o))
//	    }))
//
// Several handlers may share a kind. Dispatch tries them in registration order
// and the first OK response wins.
package router

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// Router maps frame kinds to ordered handler lists. Registration must finish
// before the first Dispatch; dispatch itself only reads.
type Router struct {
	routes map[FrameKind][]Handler
	state  any
}

// Option configures a Router.
type Option func(*Router)

// WithState sets the value handed to every extractor.
func WithState(state any) Option {
	return func(r *Router) {
		r.state = state
	}
}

func New(opts ...Option) *Router {
	r := &Router{routes: make(map[FrameKind][]Handler)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route appends h to the handlers of kind.
func (r *Router) Route(kind FrameKind, h Handler) *Router {
	r.routes[kind] = append(r.routes[kind], h)
	return r
}

func (r *Router) Text(h Handler) *Router   { return r.Route(FrameText, h) }
func (r *Router) Binary(h Handler) *Router { return r.Route(FrameBinary, h) }
func (r *Router) Ping(h Handler) *Router   { return r.Route(FramePing, h) }
func (r *Router) Pong(h Handler) *Router   { return r.Route(FramePong, h) }
func (r *Router) Close(h Handler) *Router  { return r.Route(FrameClose, h) }

// Routes returns how many handlers are registered for kind.
func (r *Router) Routes(kind FrameKind) int {
	return len(r.routes[kind])
}

// Dispatch runs the handlers registered for the request's kind.
//
// With no handlers the result is NotFoundPath echoing the body when it is
// text. Otherwise the first OK or Reconnect response is returned. If none
// succeeds, the last handler's body is returned with the status forced to
// NotFound.
func (r *Router) Dispatch(ctx context.Context, req Request) Response {
	handlers := r.routes[req.kind]
	if len(handlers) == 0 {
		var body string
		if utf8.Valid(req.body) {
			body = string(req.body)
		}
		return Response{Status: StatusNotFoundPath, Body: body}
	}

	last := Response{Status: StatusNotFound}
	for _, h := range handlers {
		res := r.invoke(ctx, h, req)
		// Reconnect ends the chain too, otherwise it would be rewritten to NotFound.
		if res.Status == StatusOK || res.Status == StatusReconnect {
			return res
		}
		last = res
	}
	return Response{Status: StatusNotFound, Body: last.Body}
}

// invoke contains a panicking handler to a NotImplemented response so the
// rest of the chain still runs.
func (r *Router) invoke(ctx context.Context, h Handler, req Request) (res Response) {
	defer func() {
		if p := recover(); p != nil {
			res = Error(StatusNotImplemented, fmt.Sprintf("handler panic: %v", p))
		}
	}()
	return h.Invoke(ctx, req, r.state)
}
