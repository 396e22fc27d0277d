// Package schema extracts an ordered field descriptor sequence from a
// configuration struct type. Each field carries a closed TypeTag variant
// (primitive, bool, optional, list) built once at inspection time; invalid
// shapes are rejected here so they surface as programming errors instead of
// user-input errors.
package schema
