package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName    = "toggle"
	toggleImplicitLiteral = "true"
	toggleAcceptedValues  = "true, false, yes, no, on, off, 1, 0"
	toggleInvalidFormat   = "invalid value %q for --%s; accepted values: %s"
	longFlagPrefix        = "--"
	shortFlagPrefix       = "-"
	flagValueSeparator    = "="
	argumentTerminator    = "--"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseToggleLiteral maps yes/no style literals to a boolean. An empty
// literal means the flag was given without a value.
func parseToggleLiteral(literal string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(literal))
	if normalized == "" {
		return true, true
	}
	value, known := toggleLiterals[normalized]
	return value, known
}

// toggleFlag is a pflag.Value for boolean flags that accept yes/no/on/off.
type toggleFlag struct {
	target *bool
	name   string
}

func (flag *toggleFlag) Set(input string) error {
	value, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf(toggleInvalidFormat, input, flag.name, toggleAcceptedValues)
	}
	*flag.target = value
	return nil
}

func (flag *toggleFlag) String() string {
	if flag == nil || flag.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*flag.target)
}

func (flag *toggleFlag) Type() string {
	return toggleFlagTypeName
}

// registerToggleFlag defines a boolean flag that may be given bare, with
// --name=value, or with a separate yes/no literal.
func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.VarP(&toggleFlag{target: target, name: name}, name, shorthand, usage)
	definedFlag := flagSet.Lookup(name)
	definedFlag.DefValue = strconv.FormatBool(defaultValue)
	definedFlag.NoOptDefVal = toggleImplicitLiteral
}

// normalizeToggleArguments joins a toggle flag and a following yes/no literal
// into one --name=value argument so the literal is not taken as a positional
// argument.
func normalizeToggleArguments(command *cobra.Command, arguments []string) []string {
	toggles := map[string]string{}
	collectToggleFlags(command, toggles)
	if len(toggles) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == argumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		name, isToggle := toggleNameOf(argument, toggles)
		if isToggle && index+1 < len(arguments) {
			literal := arguments[index+1]
			if _, known := toggleLiterals[strings.ToLower(strings.TrimSpace(literal))]; known {
				normalized = append(normalized, longFlagPrefix+name+flagValueSeparator+literal)
				index++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func toggleNameOf(argument string, toggles map[string]string) (string, bool) {
	if strings.Contains(argument, flagValueSeparator) {
		return "", false
	}
	var key string
	switch {
	case strings.HasPrefix(argument, longFlagPrefix):
		key = argument
	case strings.HasPrefix(argument, shortFlagPrefix) && len(argument) == 2:
		key = argument
	default:
		return "", false
	}
	name, isToggle := toggles[key]
	return name, isToggle
}

// collectToggleFlags indexes every toggle flag in the command tree by its
// --name and -shorthand spellings.
func collectToggleFlags(command *cobra.Command, toggles map[string]string) {
	if command == nil {
		return
	}
	index := func(flag *pflag.Flag) {
		if flag.Value.Type() != toggleFlagTypeName {
			return
		}
		toggles[longFlagPrefix+flag.Name] = flag.Name
		if flag.Shorthand != "" {
			toggles[shortFlagPrefix+flag.Shorthand] = flag.Name
		}
	}
	command.PersistentFlags().VisitAll(index)
	command.Flags().VisitAll(index)
	for _, child := range command.Commands() {
		collectToggleFlags(child, toggles)
	}
}
