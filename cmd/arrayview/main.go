package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	scriptarray "github.com/wippyai/script-array"
	"github.com/wippyai/script-array/array"
	"github.com/wippyai/script-array/typeinfo"
)

func main() {
	var (
		typeName    = flag.String("type", "s32", "Element type (bool, u8, s8, u16, s16, u32, s32, u64, s64, f32, f64, char)")
		maxElements = flag.Uint64("max", array.DefaultMaxElements, "Maximum number of elements")
		limit       = flag.Int64("mem", 0, "Byte budget for array storage (0 = unlimited)")
		verbose     = flag.Bool("v", false, "Log array internals to stderr")
		batch       = flag.Bool("batch", false, "Read commands from stdin even on a terminal")
	)
	flag.Parse()

	log := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log = l
		array.SetLogger(l)
	}
	defer log.Sync()

	reg := typeinfo.NewRegistry(typeinfo.Options{Logger: log})
	opts := array.Options{
		Allocator:   scriptarray.NewLimitAllocator(*limit),
		Logger:      log,
		MaxElements: *maxElements,
	}
	s, err := newSession(reg, *typeName, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.close()

	if !*batch && term.IsTerminal(int(os.Stdin.Fd())) {
		if err := runInteractive(s, *typeName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if failed := runBatch(s, os.Stdin, os.Stdout); failed > 0 {
		os.Exit(1)
	}
}

// runBatch executes one command per input line and returns the number of
// failed commands. Lines starting with # are ignored.
func runBatch(s *session, in io.Reader, out io.Writer) int {
	failed := 0
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		res, err := s.exec(line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			failed++
			continue
		}
		if res != "" {
			fmt.Fprintln(out, res)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		failed++
	}
	return failed
}
