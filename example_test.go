package jsonschema_test

import (
	"fmt"

	"github.com/schemakit/jsonschema"
)

func ExampleResolve() {
	root, err := jsonschema.Resolve([]byte(`{
  "type": "object",
  "definitions": {
    "street": { "enum": ["Street", "Avenue", "Boulevard"] }
  },
  "properties": {
    "number": { "type": "number" },
    "street_name": { "type": "string" },
    "street_type": { "$ref": "#/definitions/street" }
  }
}`))
	if err != nil {
		panic(err)
	}

	if err := jsonschema.Validate(
		root,
		[]byte(`{ "number": 1600, "street_name": "Pennsylvania", "street_type": "Avenue" }`),
	); err != nil {
		panic(err)
	}

	fmt.Println(jsonschema.Validate(root, []byte(`{"number": "1600"}`)))
	// Output:
	// object: "number": type: type is not allowed
}
