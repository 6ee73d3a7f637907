/*
Package passgen deterministically derives site passwords from a single
memorized master password. Nothing is ever stored: the same username, master
password, site name, and options always reproduce the same password.

# How it works:

Every input that must change the password is packed into a length-prefixed
derivation context, run with the master password through the memory-hard
stonekey derivation, and the resulting key seeds a stonerng generator. One
character is drawn from each required set, the rest of the password is drawn
from the union of the required sets, and a Fisher-Yates shuffle removes any
positional pattern from the forced characters.

# General guidelines:
  - The master password is the only secret. Losing it loses every derived
    password; there is no recovery path.
  - Bump the version (SetVersion) to rotate a site's password without
    touching any other site.
  - The defaults exclude look-alike characters (I, O, l, o, 0, 1) and stick
    to widely accepted symbols; override the sets per site when a policy
    demands it.
  - Options change the derivation context. A password generated with custom
    options can only be reproduced with the same options.
*/
package passgen
