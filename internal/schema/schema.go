// Package schema holds the gohcl decoding targets of formula files.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// HTTPBlock is the `http` block of a feed: a JSON endpoint polled on every
// evaluation round.
type HTTPBlock struct {
	URL         string            `hcl:"url"`
	Method      string            `hcl:"method,optional"`
	Headers     map[string]string `hcl:"headers,optional"`
	Body        string            `hcl:"body,optional"`
	Timeout     string            `hcl:"timeout,optional"`
	MinInterval string            `hcl:"min_interval,optional"`
}

// SocketIOBlock is the `socketio` block of a feed: a server event whose
// latest payload is kept.
type SocketIOBlock struct {
	URL                string         `hcl:"url"`
	Namespace          string         `hcl:"namespace,optional"`
	Event              string         `hcl:"event"`
	EmitEvent          string         `hcl:"emit_event,optional"`
	EmitData           hcl.Expression `hcl:"emit_data,optional"`
	InsecureSkipVerify bool           `hcl:"insecure_skip_verify,optional"`
	ConnectTimeout     string         `hcl:"connect_timeout,optional"`
}

// Feed represents a `feed` block. A feed without an http or socketio block
// is static and takes its value from `value`.
type Feed struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Type        hcl.Expression `hcl:"type,optional"`
	Value       hcl.Expression `hcl:"value,optional"`
	Path        string         `hcl:"path,optional"`
	HTTP        *HTTPBlock     `hcl:"http,block"`
	SocketIO    *SocketIOBlock `hcl:"socketio,block"`
}

// Formula represents a `formula` block.
type Formula struct {
	Name        string   `hcl:"name,label"`
	Expression  string   `hcl:"expression"`
	Description string   `hcl:"description,optional"`
	Libraries   []string `hcl:"libraries,optional"`
}

// File is the top-level structure of a formula file.
type File struct {
	Feeds    []*Feed    `hcl:"feed,block"`
	Formulas []*Formula `hcl:"formula,block"`
}
