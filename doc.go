// Package docvalidate validates YAML and JSON documents against an optional
// JSON Schema and flattens them into path/value pairs.
//
// - Parse decodes a document into an ordered Node tree (YAML for .yml/.yaml
//   names, JSON otherwise) with duplicate-key, comment and trailing-comma
//   controls.
// - CompileSchema compiles a schema whose references resolve only from the
//   schema itself, registered resources or a classpath: bundle.
// - Flatten turns a Node into "a.b[0]" style keys mapped to leaf text.
// - Validator ties the three together and reports everything in a Result.
//
// Design policy:
// - Keep only public APIs in the root package; put tokenizers and helpers under internal/.
// - Per-document failures never escape Validate; construction failures are returned from New.
//
// Typical usage:
//
//	v, err := docvalidate.New(docvalidate.WithSchema("config.schema.json", schema))
//	if err != nil {
//		return err
//	}
//	res := v.Validate(ctx, "config.yaml", data)
//	if res.HasError() {
//		for _, m := range res.Messages {
//			fmt.Println(m)
//		}
//	}
package docvalidate
