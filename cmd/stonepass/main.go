package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/saylorsolutions/stonepass/cmd/internal"
	"github.com/saylorsolutions/stonepass/pkg/passgen"
)

var version = "dev"

func main() {
	var (
		helpFlag    bool
		versionFlag bool
		username    string
		site        string
		length      int
		pwVersion   int
		noUpper     bool
		noLower     bool
		noDigits    bool
		noSymbols   bool
		symbolSet   string
	)
	flags := flag.NewFlagSet("stonepass", flag.ContinueOnError)
	flags.BoolVarP(&helpFlag, "help", "h", false, "Prints this usage information.")
	flags.BoolVar(&versionFlag, "version", false, "Prints the stonepass version and exits.")
	flags.StringVarP(&username, "user", "u", "", "Username or email registered with the site. Required.")
	flags.StringVarP(&site, "site", "s", "", "Site or domain name the password is for. Required.")
	flags.IntVarP(&length, "length", "l", passgen.DefaultLength,
		fmt.Sprintf("Password length, %d-%d.", passgen.MinLength, passgen.MaxLength))
	flags.IntVarP(&pwVersion, "password-version", "n", 1, "Password version counter. Bump it to rotate a site's password.")
	flags.BoolVar(&noUpper, "no-uppercase", false, "Don't require uppercase characters.")
	flags.BoolVar(&noLower, "no-lowercase", false, "Don't require lowercase characters.")
	flags.BoolVar(&noDigits, "no-digits", false, "Don't require digits.")
	flags.BoolVar(&noSymbols, "no-symbols", false, "Don't require symbols.")
	flags.StringVar(&symbolSet, "symbols", passgen.DefaultSymbols, "Symbol character set, for sites with restrictive policies.")
	flags.Usage = func() {
		fmt.Printf(`
stonepass derives a strong, site-specific password from a single memorized master password, fully offline.
The same inputs always reproduce the same password, so nothing is ever stored, synced, or transmitted.
Forgetting the master password loses every derived password; there is no recovery.

The master password is prompted for without echo, never passed as an argument, so it stays out of shell history and process listings.
The derived password is written to stdout alone, ready for piping to a clipboard tool.

USAGE:  stonepass -u USER -s SITE [FLAGS]

EXAMPLE:
    stonepass -u jdoe@example.com -s github.com -l 32 | wl-copy

FLAGS:
%s
SECURITY:
    Generated passwords contain at least one character from each required set, with look-alike characters (I, O, l, o, 0, 1) excluded by default.
Changing any flag that shapes the password also changes the derived password, so reuse the exact same flags to reproduce one.
`, flags.FlagUsages())
	}
	if len(os.Args) == 1 {
		flags.Usage()
		return
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		flags.Usage()
		internal.Fatal("Error parsing flags: %v", err)
	}
	if helpFlag {
		flags.Usage()
		return
	}
	if versionFlag {
		internal.Echo("stonepass %s", version)
		return
	}
	if len(username) == 0 {
		internal.Fatal("Missing required --user flag")
	}
	if len(site) == 0 {
		internal.Fatal("Missing required --site flag")
	}

	master, err := internal.PromptSecret("Master Password: ")
	if err != nil {
		internal.Fatal("%v", err)
	}
	if len(master) == 0 {
		internal.Fatal("Master password cannot be empty")
	}

	opts := []passgen.GeneratorOpt{
		passgen.SetLength(length),
		passgen.SetVersion(pwVersion),
		passgen.SetUppercase(passgen.DefaultUppercase, !noUpper),
		passgen.SetLowercase(passgen.DefaultLowercase, !noLower),
		passgen.SetDigits(passgen.DefaultDigits, !noDigits),
		passgen.SetSymbols(symbolSet, !noSymbols),
	}
	internal.Echo("Deriving password, this takes a moment...")
	password, err := passgen.Generate(username, master, site, opts...)
	if err != nil {
		internal.Fatal("Failed to generate password: %v", err)
	}
	fmt.Println(password)
}
