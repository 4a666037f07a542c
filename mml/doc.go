// Package mml implements MML, a structured-data codec whose wire format is a
// Markdown document of nested lists.
//
// Every value is rendered as Markdown link items inside bulleted lists. The
// link URI carries a type tag naming the shape of the value, and the link text
// carries the value itself (or a human-readable description for composites).
// The resulting document is machine-generated and machine-consumed, but can be
// browsed by any Markdown viewer.
//
// # Data Model
//
// Primitives: bool, i8..i128, u8..u128, f32, f64, char, string, bytes,
// none, unit, unit structs, unit variants.
// Composites: options, newtype structs/variants, sequences, tuples,
// tuple structs/variants, maps, structs, struct variants.
//
// # Wire Format
//
// Indentation is 4 spaces per nesting level. Ordered lists count from 0
// ("0. ", "1. ", ...), unordered lists use "* ". A leaf is a link,
// "[text](serde://...)". ASCII punctuation in link text is backslash-escaped;
// byte buffers are URL-safe padded base64.
//
// A struct with two fields serializes as:
//
//	* [Struct Point of length 2](serde://struct/Point/2)
//	*
//	    0. [x](serde://string)
//	    1. [1](serde://u8)
//	*
//	    0. [y](serde://string)
//	    1. [2](serde://u8)
//
// # Usage
//
// Application types implement Marshaler and Unmarshaler; the dynamic Value
// type implements both and is the vehicle for transcoding from JSON and CBOR.
//
//	doc, err := mml.Marshal(value)
//	err = mml.Unmarshal(string(doc), &value)
package mml
