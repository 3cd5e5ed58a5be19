package app

import "github.com/baatlink/baatlink/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickConnection
)

// Policy decides what happens to a connection whose transport cannot
// keep up. A send failure is treated like a transport fault, so the
// default policy tears the connection down the same way a disconnect
// would.
type Policy interface {
	OnBackPressure(id core.ConnID) BackpressureAction
}

type KickSlowPolicy struct{}

func (KickSlowPolicy) OnBackPressure(core.ConnID) BackpressureAction {
	return KickConnection
}
