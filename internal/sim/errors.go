package sim

import "errors"

// ErrUnknownParam is returned by SetParam for names outside ParamNames.
var ErrUnknownParam = errors.New("sim: unknown parameter")
