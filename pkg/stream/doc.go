/*
Package stream screens data through the ChaCha keystream as it passes through
an io.Reader or io.Writer.

Every byte read or written is XORed with the next byte of the keystream
produced by a stonerng generator, so the process is symmetric: screening
twice with the same key and nonce restores the original data.

# Important note:

This is keystream screening, not authenticated encryption. Nothing detects
tampering, and reusing a key/nonce pair on two payloads lets an observer XOR
the streams together. Use a fresh nonce per payload.

# General guidelines:
  - Derive the key from stonekey.DeriveKey when it comes from a password.
  - Generate the nonce with chacha.GenerateNonce and store it alongside the
    payload; it is not a secret.
  - Call Wipe once a screen is finished so the key does not linger.
*/
package stream
