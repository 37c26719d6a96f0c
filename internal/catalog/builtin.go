package catalog

// Names of the built-in tools.
const (
	HelloWorld = "hello_world"
	Echo       = "echo"
	GetTime    = "get_time"
	MathAdd    = "math_add"
	DebugInfo  = "debug_info"
)

// --- Tool Parameter Structs ---
// Only the shape matters: the structs are reflected into schemas and never
// populated. Handlers receive the raw argument map.

type HelloWorldParams struct {
	Name string `json:"name,omitempty" description:"Name to greet (optional)" default:"World"`
}

type EchoParams struct {
	Message string `json:"message" description:"Message to echo back"`
	Prefix  string `json:"prefix,omitempty" description:"Optional prefix to add to the message" default:"Echo: "`
}

type GetTimeParams struct {
	Format   string `json:"format,omitempty" jsonschema:"enum=iso,enum=readable,enum=timestamp" description:"Time format: 'iso', 'readable', or 'timestamp'" default:"readable"`
	Timezone string `json:"timezone,omitempty" description:"Timezone (e.g., 'UTC', 'US/Eastern')" default:"local"`
}

type MathAddParams struct {
	A float64 `json:"a" description:"First number"`
	B float64 `json:"b" description:"Second number"`
}

type DebugInfoParams struct {
	IncludeTools bool `json:"include_tools,omitempty" description:"Include tool information in response" default:"true"`
	IncludeStats bool `json:"include_stats,omitempty" description:"Include server statistics" default:"true"`
}

// Definitions returns the built-in tool definitions in their listing order.
func Definitions() []Definition {
	return []Definition{
		{
			Name:        HelloWorld,
			Description: "A simple greeting tool that returns a hello message",
			Params:      HelloWorldParams{},
		},
		{
			Name:        Echo,
			Description: "Echo back the input message with optional prefix",
			Params:      EchoParams{},
		},
		{
			Name:        GetTime,
			Description: "Get current time in various formats",
			Params:      GetTimeParams{},
		},
		{
			Name:        MathAdd,
			Description: "Add two numbers together",
			Params:      MathAddParams{},
		},
		{
			Name:        DebugInfo,
			Description: "Get debug information about the MCP server",
			Params:      DebugInfoParams{},
		},
	}
}

// Default builds the catalog of built-in tools. The definitions are static,
// so a failure here is a programming error.
func Default() *Catalog {
	c, err := New(Definitions()...)
	if err != nil {
		panic("catalog: invalid built-in definitions: " + err.Error())
	}
	return c
}
