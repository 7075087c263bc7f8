package codegen

import (
	"go/token"
	"go/types"
)

// File is the content of one generated file.
type File struct {
	Package string
	Imports []Import
	Shapes  []*Shape
}

// Import is an import of a generated file. Name is always set.
type Import struct {
	Name string
	Path string
}

// Shape holds a shape struct and the view generated for it.
type Shape struct {
	// Name is the shape struct type name
	Name string

	// Schema is the schema name from the marker tag
	Schema string

	// View is the generated view type name
	View string

	Fields []*ShapeField

	Pos token.Position
}

// ShapeField holds a field of a shape struct.
type ShapeField struct {
	// GoName is the struct field name, used for the accessor
	GoName string

	// Name is the schema field name
	Name string

	// Key is the record key when it differs from Name
	Key string

	Type types.Type

	// TypeText is Type as written in the generated file
	TypeText string

	Required bool
	Cached   bool
	Meta     bool
}

// PackageInfo holds information about a Go package
type PackageInfo struct {
	// Path is the package import path
	Path string

	// Dir is the directory containing the package
	Dir string

	// Name is the package name
	Name string
}
