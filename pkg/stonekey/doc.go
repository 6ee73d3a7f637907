/*
Package stonekey derives uniform 256-bit keys from passwords using a
memory-hard, data-independent construction.

# How it works:

A workspace of 2^m 64-byte blocks is filled with domain-separated digests
(the password enters only through block 0), mixed for t rounds by a butterfly
network whose every step is irreversible, compressed by XOR accumulation
through the ChaCha permutation, and distilled through one final
domain-separated hash of the password, context, and accumulator. The
workspace is zeroed unconditionally before DeriveKey returns.

Memory accesses follow a fixed, input-independent schedule, so the derivation
leaks nothing through access patterns. The butterfly topology is a heuristic
defense against time-memory trade-offs in the spirit of Balloon and Lyra2; it
carries no formal proof, and its schedule must be treated as a fixed
algorithm. Any change to it changes every derived key.

# General guidelines:
  - This function raises attacker cost; it does not create entropy. A weak
    password stays brute-forceable no matter the cost settings.
  - The defaults (64 MiB, 3 rounds) target roughly a second on current
    desktop hardware. Benchmark before raising them on small devices.
  - Keep the process from paging while a derivation runs; the workspace holds
    password-derived state until it is wiped.
  - The context input is the place for application, user, and site binding.
    Any change to it yields an unrelated key.
*/
package stonekey
