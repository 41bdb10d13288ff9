//go:build !tinygo && !baremetal

// Package zaplog adapts a *zap.Logger to transport.Logger, the only place
// in this module zap is imported (grounded on gg-glitch-88-meshigo-kore's
// ydin gateway, which takes a *zap.Logger constructor dependency and logs
// with structured fields at Info/Warn).
package zaplog

import (
	"go.uber.org/zap"

	"github.com/ystepanoff/meshtransport/transport"
)

type adapter struct {
	s *zap.SugaredLogger
}

// New wraps z as a transport.Logger.
func New(z *zap.Logger) transport.Logger {
	return &adapter{s: z.Sugar()}
}

// NewProduction builds a production zap.Logger and wraps it, for
// cmd/node, cmd/gateway and cmd/simnet's default wiring.
func NewProduction() (transport.Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return New(z), nil
}

func (a *adapter) Debug(msg string, kv ...any) { a.s.Debugw(msg, kv...) }
func (a *adapter) Info(msg string, kv ...any)  { a.s.Infow(msg, kv...) }
func (a *adapter) Warn(msg string, kv ...any)  { a.s.Warnw(msg, kv...) }
func (a *adapter) Error(msg string, kv ...any) { a.s.Errorw(msg, kv...) }

var _ transport.Logger = (*adapter)(nil)
