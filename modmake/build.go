package main

import (
	. "github.com/saylorsolutions/modmake"
)

const (
	stonepassVersion = "0.1.0"
)

func main() {
	b := NewBuild()
	b.Generate().DependsOnRunner("tidy", "", Go().ModTidy())

	stonepass := NewAppBuild("stonepass", "cmd/stonepass", stonepassVersion)
	stonepass.Build(func(gb *GoBuild) {
		gb.
			StripDebugSymbols().
			SetVariable("main", "version", stonepassVersion).
			CgoEnabled(false)
	})
	stonepass.Variant("windows", "amd64")
	stonepass.Variant("linux", "amd64")
	stonepass.Variant("linux", "arm64")
	stonepass.Variant("darwin", "amd64")
	stonepass.Variant("darwin", "arm64")
	b.ImportApp(stonepass)

	b.Execute()
}
