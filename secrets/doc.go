// Package secrets seals and opens provider API keys held in pivotkit
// configuration files using ChaCha20-Poly1305.
//
// Sealed values carry the "enc:" prefix so configuration can mix plain and
// sealed keys; Resolve passes plain values through untouched.
package secrets
