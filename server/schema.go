package server

import (
	"net/http"
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"
)

var (
	schemaOnce sync.Once
	schemaDoc  *jsonschema.Schema
)

// ProtocolSchema 生成线协议（入站与出站消息）的 JSON Schema
func ProtocolSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		reflector := jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			DoNotReference:             true,
		}
		message := func(v any, title, desc string) *jsonschema.Schema {
			s := reflector.ReflectFromType(reflect.TypeOf(v))
			s.Version = ""
			s.Title = title
			s.Description = desc
			return s
		}
		schemaDoc = &jsonschema.Schema{
			Version:     jsonschema.Version,
			Title:       "Maze Runner Protocol",
			Description: "Messages exchanged over /ws. JSON text frames by default, msgpack binary frames with ?codec=msgpack.",
			OneOf: []*jsonschema.Schema{
				message(ClientMessage{}, "Client Message", "Held input state or a reset request sent by the client."),
				message(MazeMessage{}, "Maze Message", "Read-only grid sent when a round starts."),
				message(StateMessage{}, "State Message", "Player pose, camera and events broadcast every tick."),
			},
		}
	})
	return schemaDoc
}

// HandleSchema GET /schema
func HandleSchema(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ProtocolSchema())
}
