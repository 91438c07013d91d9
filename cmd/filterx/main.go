// Command filterx is the reference host driver: it wires the message
// store, function registry, regex and template engines and statistics
// registry together and evaluates one hand-built expression tree
// against a record, the way a real log-processing daemon's
// configuration-time tree builder would. FilterX itself has no
// source-text parser (internal/fxexpr's own package doc explains why
// that stays an external collaborator), so this driver constructs the
// tree directly from fxexpr constructors rather than parsing a filter
// expression string — the shape mirrors the teacher's cmd/app/main.go
// (flag parsing, -version/-help, a log-level flag) adapted to FilterX's
// synchronous evaluate-one-record model instead of the teacher's
// actor-kernel service graph.
package main

import (
	"flag"
	"fmt"
	"os"

	"filterx/internal/fxconfig"
	"filterx/internal/fxeval"
	"filterx/internal/fxexpr"
	"filterx/internal/fxfunc"
	"filterx/internal/fxhost"
	"filterx/internal/fxhost/regex"
	"filterx/internal/fxhost/stats"
	"filterx/internal/fxhost/store"
	"filterx/internal/fxhost/template"
	"filterx/internal/fxlog"
	"filterx/internal/fxobject"
	"filterx/internal/fxvar"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help          bool
	version       bool
	listFunctions bool

	configPath string
	logLevel   string
	logFile    string

	storeBackend string
	storePath    string
	storeDSN     string

	messageField string
	userField    string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.BoolVar(&listFunctions, "list-functions", false, "List registered function names and exit")

	flag.StringVar(&configPath, "config", "", "Path to a TOML configuration file")
	flag.StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, none (overrides config)")
	flag.StringVar(&logFile, "log-file", "", "Log file path (overrides config; default stderr)")

	flag.StringVar(&storeBackend, "store", "", "Message store backend: sqlite, mysql, postgres (overrides config)")
	flag.StringVar(&storePath, "db", "", "SQLite database path (overrides config)")
	flag.StringVar(&storeDSN, "dsn", "", "MySQL/Postgres DSN (overrides config)")

	flag.StringVar(&messageField, "message", "ERROR disk usage at 97%", "Value of the demo record's \"message\" field")
	flag.StringVar(&userField, "user", "root", "Value of the demo record's \"user\" field")
}

func main() {
	flag.Parse()

	if version {
		printVersion()
		return
	}
	if help {
		printHelp()
		return
	}

	cfg := fxconfig.Default()
	if configPath != "" {
		loaded, err := fxconfig.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "filterx: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	applyFlagOverrides(&cfg)

	fxlog.Init(cfg.Log.Level, cfg.Log.File, cfg.Log.Color)
	defer fxlog.Close()

	funcs := fxfunc.NewRegistry()
	if listFunctions {
		for _, name := range funcs.Names() {
			fmt.Println(name)
		}
		fmt.Println("regexp_search")
		fmt.Println("template")
		return
	}

	msgStore, err := openStore(cfg.Store)
	if err != nil {
		fxlog.Error("%v", err)
		fmt.Fprintf(os.Stderr, "filterx: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if c, ok := msgStore.(interface{ Close() error }); ok {
			_ = c.Close()
		}
	}()

	regexEngine := regex.NewEngine()
	templateEngine := template.NewEngine()
	statsRegistry := stats.NewRegistry()

	dir := fxvar.NewDirectory()
	seedRecord(msgStore, dir)

	tree, err := buildDemoTree(dir, funcs, regexEngine, templateEngine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "filterx: build expression tree: %v\n", err)
		os.Exit(1)
	}

	exprCfg := &fxexpr.Config{
		Debug: cfg.Debug,
		RegisterCounter: func(name string, ptr *int64) {
			statsRegistry.RegisterCounter(name, nil, ptr)
		},
	}

	if err := tree.Init(exprCfg); err != nil {
		fmt.Fprintf(os.Stderr, "filterx: init expression tree: %v\n", err)
		os.Exit(1)
	}
	if opt := tree.Optimize(); opt != nil {
		tree = opt
	}

	ctx := fxeval.NewContext([]fxeval.Message{msgStore}, nil, cfg.FloatingSlots)
	ctx.Debug = cfg.Debug
	ctx.Trace = cfg.Trace
	ctx.Dir = dir

	result, err := tree.Eval(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "filterx: eval: %v\n", err)
	} else {
		if r, ok := result.(fxobject.Reprer); ok {
			fmt.Println(r.Repr())
		}
		result.Unref()
	}
	ctx.ReclaimScratch()

	if cfg.Debug {
		for k, v := range statsRegistry.Snapshot() {
			fxlog.Debug("stat %s=%d", k, v)
		}
	}

	tree.Deinit(exprCfg)
	tree.Free()
}

func applyFlagOverrides(cfg *fxconfig.Config) {
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if storeBackend != "" {
		cfg.Store.Backend = storeBackend
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	if storeDSN != "" {
		cfg.Store.DSN = storeDSN
	}
}

func openStore(cfg fxconfig.StoreConfig) (fxhost.MessageStore, error) {
	switch cfg.Backend {
	case "mysql":
		return store.OpenMySQL(cfg.DSN)
	case "postgres":
		return store.OpenPostgres(cfg.DSN)
	case "sqlite", "":
		return store.OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// seedRecord writes the demo record's fields into the message store,
// the way a real host would populate it from an inbound log line
// before handing it to FilterX for evaluation.
func seedRecord(msgStore fxhost.MessageStore, dir *fxvar.Directory) {
	messageHandle := msgStore.RegisterName("message")
	dir.InternMessageTied("message", messageHandle)
	msgStore.SetValue(messageHandle, []byte(messageField), "string")

	userHandle := msgStore.RegisterName("user")
	dir.InternMessageTied("user", userHandle)
	msgStore.SetValue(userHandle, []byte(userField), "string")
}

func messageVarRef(loc string, dir *fxvar.Directory, name string) fxexpr.Expr {
	handle, _ := dir.LookupMessageTied(name)
	return fxexpr.NewVarRef(loc, name, handle, false)
}

// buildDemoTree assembles a small compound expression exercising the
// string-affix predicates, the regexp_search generator-function, the
// `??` null-coalesce operator, vars(), and the template expression
// against the seeded demo record:
//
//	matched = startswith(message, "ERROR")
//	captures = regexp_search(message, `(?<code>\d+)`)
//	captures_or_none = captures ?? "none"
//	snapshot = vars()
//	"user={{field \"user\"}}"  (returned)
func buildDemoTree(dir *fxvar.Directory, funcs *fxfunc.Registry, regexEngine fxhost.RegexEngine, templateEngine fxhost.TemplateEngine) (fxexpr.Expr, error) {
	const loc = "cmd/filterx:demo"

	startswithCall, err := funcs.Build(loc, "startswith", []fxexpr.Expr{
		messageVarRef(loc, dir, "message"),
		fxexpr.NewLiteral(loc, fxobject.NewString("ERROR")),
	})
	if err != nil {
		return nil, err
	}
	matchedHandle := dir.InternFloating("matched")
	assignMatched := fxexpr.NewAssignment(loc, fxexpr.NewVarRef(loc, "matched", matchedHandle, true), startswithCall)

	captureGen := fxfunc.BuildRegexpSearch(
		loc, regexEngine,
		messageVarRef(loc, dir, "message"),
		fxexpr.NewLiteral(loc, fxobject.NewString(`(?<code>\d+)`)),
		false, false,
	)
	capturesHandle := dir.InternFloating("captures")
	assignCaptures := fxexpr.NewAssignment(loc, fxexpr.NewVarRef(loc, "captures", capturesHandle, true), captureGen)

	capturesHandle2, _ := dir.LookupFloating("captures")
	fallback := fxexpr.NewNullCoalesce(loc, fxexpr.NewVarRef(loc, "captures", capturesHandle2, false), fxexpr.NewLiteral(loc, fxobject.NewString("none")))
	capturesOrFallbackHandle := dir.InternFloating("captures_or_none")
	assignFallback := fxexpr.NewAssignment(loc, fxexpr.NewVarRef(loc, "captures_or_none", capturesOrFallbackHandle, true), fallback)

	snapshotHandle := dir.InternFloating("snapshot")
	assignSnapshot := fxexpr.NewAssignment(loc, fxexpr.NewVarRef(loc, "snapshot", snapshotHandle, true), funcMustBuild(funcs, loc, "vars", nil))

	render := fxfunc.BuildTemplate(loc, `user={{field "user"}}`, templateEngine)

	return fxexpr.NewCompound(loc, []fxexpr.Expr{assignMatched, assignCaptures, assignFallback, assignSnapshot, render}, true), nil
}

// funcMustBuild builds a registered function node, panicking on an
// unknown name — acceptable here because the demo tree only ever
// requests functions this binary itself just registered.
func funcMustBuild(funcs *fxfunc.Registry, loc, name string, args []fxexpr.Expr) fxexpr.Expr {
	node, err := funcs.Build(loc, name, args)
	if err != nil {
		panic(err)
	}
	return node
}

func printVersion() {
	fmt.Printf("filterx version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: filterx [options]

Options:
  -config <path>      Load a TOML configuration file
  -store <backend>    Message store backend: sqlite, mysql, postgres
  -db <path>          SQLite database path
  -dsn <dsn>          MySQL/Postgres DSN
  -message <text>     Value of the demo record's "message" field
  -user <text>        Value of the demo record's "user" field
  -list-functions     List registered function names and exit
  -log-level <level>  Log level: trace, debug, info, warn, error, none
  -log-file <path>    Log file path (default stderr)
  -help               Display this help information and exit
  -version            Display version information and exit

Details:
filterx evaluates a small built-in expression tree (string-affix
matching, regexp_search, template rendering) against one demo record,
exercising the FilterX evaluation core and its host collaborators end
to end.

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}
