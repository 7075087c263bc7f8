package debug

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-json"
)

type debug struct {
	Convert  bool
	Cache    bool
	Validate bool
	Diff     bool
	Decode   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Convert = boolEnv("DYN_DEBUG_CONVERT")
	d.Cache = boolEnv("DYN_DEBUG_CACHE")
	d.Validate = boolEnv("DYN_DEBUG_VALIDATE")
	d.Diff = boolEnv("DYN_DEBUG_DIFF")
	d.Decode = boolEnv("DYN_DEBUG_DECODE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Convert() bool {
	return d.Convert
}
func Cache() bool {
	return d.Cache
}
func Validate() bool {
	return d.Validate
}
func Diff() bool {
	return d.Diff
}
func Decode() bool {
	return d.Decode
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
