package main

import (
	"os"

	"github.com/alecthomas/kong"
)

var arguments struct {
	Conf           string   `help:"Path to config file. Supports JSON with comments." type:"path"`
	Table          string   `help:"Path to table descriptor JSON file." required:"" type:"path"`
	KeyIn          []string `help:"Accepted values for each clustering column position, comma-separated, '*' accepts all. Repeat the flag once per column."`
	MaxRangeLength *int64   `help:"Maximum scan range length in bytes, overrides the config value. 0 or negative means never split."`
}

func main() {
	kctx := kong.Parse(&arguments)
	r := &runner{out: os.Stdout}
	err := r.run(arguments.Conf, arguments.Table, arguments.KeyIn, arguments.MaxRangeLength)
	kctx.FatalIfErrorf(err)
}
