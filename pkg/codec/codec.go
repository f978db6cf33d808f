// Package codec implements the fixed width little-endian encoding used by Ark v2
// transactions and the hexadecimal text form used to transport them.
package codec
