package options

import (
	"strconv"
	"strings"

	"github.com/alecthomas/kingpin/v2"
)

// flagValue records a raw command-line value and whether it was supplied.
// Primary and alias flags share one flagValue.
type flagValue struct {
	raw     string
	set     bool
	boolean bool
}

func (v *flagValue) Set(raw string) error {
	v.raw = raw
	v.set = true
	return nil
}

func (v *flagValue) String() string {
	return v.raw
}

func (v *flagValue) IsBoolFlag() bool {
	return v.boolean
}

// Flags holds the build option flags bound to a kingpin application.
type Flags struct {
	values map[string]*flagValue
}

// Bind registers every build option, and a hidden flag per alias, on app.
// Values stay raw strings so that coercion happens once, in Resolve, for
// both flags and environment variables.
func Bind(app *kingpin.Application) *Flags {
	flags := &Flags{values: make(map[string]*flagValue, len(definitions))}
	for _, def := range definitions {
		value := &flagValue{boolean: def.kind == kindBool}
		app.Flag(def.name, def.help).SetValue(value)
		if def.alias != "" {
			app.Flag(def.alias, "Alias for --"+def.name+".").Hidden().SetValue(value)
		}
		flags.values[def.name] = value
	}
	return flags
}

// Overrides returns the options supplied on the command line.
func (f *Flags) Overrides() Overrides {
	out := make(Overrides, len(f.values))
	for name, value := range f.values {
		if value.set {
			out[name] = value.raw
		}
	}
	return out
}

// Permissive drops every argument app does not declare so that flags meant
// for the build orchestrator (for example "--network localhost") never abort
// parsing. Unknown long flags are dropped together with a detached value.
// Bool flags written as "--name=value" are rewritten to "--name" or
// "--no-name". Everything after "--" is discarded.
func Permissive(app *kingpin.Application, args []string) []string {
	model := app.Model()

	long := map[string]*kingpin.FlagModel{}
	short := map[rune]*kingpin.FlagModel{}
	collect := func(group *kingpin.FlagGroupModel) {
		if group == nil {
			return
		}
		for _, flag := range group.Flags {
			long[flag.Name] = flag
			if flag.Short != 0 {
				short[flag.Short] = flag
			}
		}
	}
	collect(model.FlagGroupModel)

	commands := map[string]bool{}
	if model.CmdGroupModel != nil {
		for _, cmd := range model.Commands {
			commands[cmd.Name] = true
			collect(cmd.FlagGroupModel)
		}
	}

	out := make([]string, 0, len(args))
	commandSeen := false
	takesNext := func(i int) bool {
		if i+1 >= len(args) {
			return false
		}
		next := args[i+1]
		if strings.HasPrefix(next, "-") {
			return false
		}
		return commandSeen || !commands[next]
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return out

		case strings.HasPrefix(arg, "--"):
			name, value, hasValue := strings.Cut(arg[2:], "=")
			flag, ok := long[name]
			if !ok {
				if base, negated := strings.CutPrefix(name, "no-"); negated {
					if f, found := long[base]; found && f.IsBoolFlag() && !hasValue {
						out = append(out, arg)
						continue
					}
				}
				if !hasValue && takesNext(i) {
					i++
				}
				continue
			}

			if flag.IsBoolFlag() {
				if !hasValue {
					out = append(out, arg)
					continue
				}
				b, err := strconv.ParseBool(value)
				switch {
				case err != nil:
					// left as-is so kingpin reports the bad value
					out = append(out, arg)
				case b:
					out = append(out, "--"+name)
				default:
					out = append(out, "--no-"+name)
				}
				continue
			}

			out = append(out, arg)
			if !hasValue && i+1 < len(args) {
				i++
				out = append(out, args[i])
			}

		case strings.HasPrefix(arg, "-") && len(arg) == 2:
			flag, ok := short[rune(arg[1])]
			if !ok {
				continue
			}
			out = append(out, arg)
			if !flag.IsBoolFlag() && i+1 < len(args) {
				i++
				out = append(out, args[i])
			}

		case strings.HasPrefix(arg, "-"):
			// combined or unknown short flags

		default:
			if !commandSeen && commands[arg] {
				commandSeen = true
				out = append(out, arg)
			}
		}
	}

	return out
}
