package npc

import (
	"github.com/hupe1980/npclink/client"
	"github.com/hupe1980/npclink/internal/schema"
)

// Function declares a command an NPC may invoke. It is built fluently and
// compiled to the wire format with Def. The zero value is not usable; use
// NewFunction.
type Function struct {
	name            string
	description     string
	properties      map[string]any
	required        []string
	neverRespondMsg *bool
}

// NewFunction starts a function declaration with the given name.
func NewFunction(name string) *Function {
	return &Function{
		name:       name,
		properties: make(map[string]any),
	}
}

// Description sets the prose shown to the model for deciding when to invoke
// the function.
func (f *Function) Description(desc string) *Function {
	f.description = desc
	return f
}

// StringParam declares a required string parameter.
func (f *Function) StringParam(name, desc string) *Function {
	return f.Param(name, map[string]any{"type": "string", "description": desc})
}

// IntParam declares a required integer parameter.
func (f *Function) IntParam(name, desc string) *Function {
	return f.Param(name, map[string]any{"type": "integer", "description": desc})
}

// NumberParam declares a required numeric parameter.
func (f *Function) NumberParam(name, desc string) *Function {
	return f.Param(name, map[string]any{"type": "number", "description": desc})
}

// BoolParam declares a required boolean parameter.
func (f *Function) BoolParam(name, desc string) *Function {
	return f.Param(name, map[string]any{"type": "boolean", "description": desc})
}

// EnumParam declares a required string parameter restricted to the given
// values.
func (f *Function) EnumParam(name, desc string, values ...string) *Function {
	return f.Param(name, map[string]any{"type": "string", "description": desc, "enum": values})
}

// Param declares a required parameter with an explicit JSON-schema fragment.
func (f *Function) Param(name string, schema map[string]any) *Function {
	f.properties[name] = schema
	f.required = append(f.required, name)
	return f
}

// ParamsStruct derives the whole parameter schema from the exported fields
// of a Go struct, replacing any parameters declared so far. Field names
// follow json tags; description and enum tags refine the schema.
func (f *Function) ParamsStruct(v any) *Function {
	s := schema.FromStruct(v)
	f.properties, _ = s["properties"].(map[string]any)
	f.required, _ = s["required"].([]string)
	return f
}

// NeverRespondWithMessage marks the function as silent: invoking it should
// not produce a spoken message alongside the command.
func (f *Function) NeverRespondWithMessage(v bool) *Function {
	f.neverRespondMsg = &v
	return f
}

// Def compiles the declaration to its wire representation. A function
// without parameters has a nil schema.
func (f *Function) Def() client.FunctionDef {
	def := client.FunctionDef{
		Name:                    f.name,
		Description:             f.description,
		NeverRespondWithMessage: f.neverRespondMsg,
	}
	if len(f.properties) > 0 {
		def.Parameters = map[string]any{
			"type":       "object",
			"properties": f.properties,
			"required":   f.required,
		}
	}
	return def
}

// MinecraftCommand returns a ready-made declaration that lets an NPC run a
// slash command in its game world.
func MinecraftCommand() *Function {
	return NewFunction("minecraft_command").
		Description("Execute a Minecraft slash command in the world on behalf of the NPC.").
		StringParam("command", "The full slash command to run, e.g. /give @p diamond 1.")
}
