package core

import "fmt"

// ConfigError reports an invalid render parameter. It is returned before any
// rendering work begins; a render that starts has a fully valid configuration.
type ConfigError struct {
	Param   string // Name of the offending parameter
	Message string // What is wrong with it
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Param, e.Message)
}

// NewConfigError creates a ConfigError for the given parameter
func NewConfigError(param, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Param: param, Message: fmt.Sprintf(format, args...)}
}

// ConstructionError reports malformed or degenerate scene geometry detected
// while assembling a scene or building its acceleration structure.
type ConstructionError struct {
	Message string
	Err     error // Underlying cause, may be nil
}

func (e *ConstructionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scene construction: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("scene construction: %s", e.Message)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// NewConstructionError creates a ConstructionError wrapping err (err may be nil)
func NewConstructionError(err error, format string, args ...interface{}) *ConstructionError {
	return &ConstructionError{Message: fmt.Sprintf(format, args...), Err: err}
}

// RenderError reports a worker-local fault confined to a single tile. Sibling
// tiles are unaffected; the controller collects these into the terminal
// render outcome instead of aborting the render.
type RenderError struct {
	TileID int
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render fault in tile %d: %v", e.TileID, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// NewRenderError creates a RenderError for the given tile
func NewRenderError(tileID int, err error) *RenderError {
	return &RenderError{TileID: tileID, Err: err}
}
