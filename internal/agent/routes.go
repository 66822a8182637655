// Package agent holds the frame routes served by nextdoor-agent.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Prescott-Data/nextdoor/router"
)

// Logger is the subset of bridge.Logger the routes need.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
}

// State is shared by every dispatch. It is never mutated after NewRouter.
type State struct {
	AgentID   string
	Version   string
	StartedAt time.Time
	Logger    Logger
}

// Command is a JSON text frame addressed to the agent.
type Command struct {
	Op   string `json:"op"`
	Data string `json:"data,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Info is the reply to the "info" command.
type Info struct {
	AgentID string `json:"agent_id"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// NewRouter builds the agent routes:
//
//   - text: JSON commands (echo, upper, info, reconnect), falling back to a
//     plain echo for anything that is not a command
//   - binary: replies with the payload size
//   - close: logs the peer's close reason
func NewRouter(state *State) *router.Router {
	return router.New(router.WithState(state)).
		Text(router.Handle2(router.JSONBody[Command](), router.State[*State](), handleCommand)).
		Text(router.Handle1(router.String(), func(_ context.Context, s string) string {
			return s
		})).
		Binary(router.Handle1(router.Bytes(), func(_ context.Context, b []byte) router.Responder {
			return router.JSON(map[string]int{"bytes": len(b)})
		})).
		Close(router.Handle2(router.CloseReason(), router.State[*State](), handleClose))
}

func handleCommand(_ context.Context, cmd Command, state *State) router.Responder {
	switch cmd.Op {
	case "echo":
		return router.OK(cmd.Data)
	case "upper":
		return router.OK(strings.ToUpper(cmd.Data))
	case "info":
		return router.JSON(Info{
			AgentID: state.AgentID,
			Version: state.Version,
			Uptime:  time.Since(state.StartedAt).Truncate(time.Second).String(),
		})
	case "reconnect":
		return router.Reconnect(cmd.URL)
	default:
		return router.Error(router.StatusNotImplemented, fmt.Sprintf("unknown op %q", cmd.Op))
	}
}

func handleClose(_ context.Context, payload *router.ClosePayload, state *State) router.Status {
	if state.Logger != nil {
		if payload == nil {
			state.Logger.Info("Peer closed the connection")
		} else {
			state.Logger.Info("Peer closed the connection", "code", payload.Code, "reason", payload.Reason)
		}
	}
	return router.StatusNoContent
}
