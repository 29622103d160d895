// Package netlist parses a SPICE-style deck into a mnasim/pkg/circuit.Circuit:
// line-continuation joining and SI-suffix value parsing follow the teacher
// pack's netlist reader, generalized to the element set and dot commands
// this simulator supports.
package netlist

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"mnasim/pkg/circuit"
	"mnasim/pkg/waveform"
)

// ErrSyntax is returned for any malformed netlist line.
var ErrSyntax = errors.New("netlist: syntax error")

var unitMap = map[string]float64{
	"t":   1e12,
	"g":   1e9,
	"meg": 1e6,
	"k":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
}

// valueRe matches a numeric literal, an optional case-insensitive SI
// suffix, and an optional case-insensitive trailing unit word (V, A, F, H,
// s, Hz, ohm) that is stripped and ignored. The SI-suffix alternation is
// tried before the unit-word alternation so "10f" parses as 10 femto
// rather than stripping an "F" unit letter out from under it.
var valueRe = regexp.MustCompile(`(?i)^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[tgkmunpf])?(ohm|hz|[vafhs])?$`)

// ParseValue parses a SPICE numeric literal with an optional SI suffix and
// an optional trailing unit letter, e.g. "4.7k" -> 4700, "100n" -> 1e-7,
// "4.7kohm" -> 4700, "100mV" -> 0.1.
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("%w: invalid value %q", ErrSyntax, val)
	}
	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if matches[2] != "" {
		num *= unitMap[strings.ToLower(matches[2])]
	}
	return num, nil
}

// Parse reads a full netlist deck and returns a finalized circuit.Circuit.
func Parse(input string) (*circuit.Circuit, error) {
	c := circuit.NewCircuit()

	lines, title, err := joinContinuations(input)
	if err != nil {
		return nil, err
	}
	c.Title = title

	for _, line := range lines {
		if err := parseLine(c, line); err != nil {
			return nil, err
		}
	}

	if err := c.Finalize(); err != nil {
		return nil, err
	}
	return c, nil
}

// joinContinuations strips comments and blank lines, joins "+"-prefixed
// continuation lines onto the previous statement, and returns the deck's
// title (the first line, conventionally a comment).
func joinContinuations(input string) ([]string, string, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))

	var title string
	if scanner.Scan() {
		title = strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "*"))
	}

	var lines []string
	var current string
	flush := func() {
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "*"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "+") {
			current += " " + strings.TrimSpace(line[1:])
			continue
		}
		flush()
		current = line
	}
	flush()

	return lines, title, scanner.Err()
}

func parseLine(c *circuit.Circuit, line string) error {
	line = regexp.MustCompile(`\s+`).ReplaceAllString(line, " ")
	if strings.HasPrefix(line, ".") {
		return parseDotCommand(c, line)
	}
	return parseElement(c, line)
}

func parseElement(c *circuit.Circuit, line string) error {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return fmt.Errorf("%w: %q", ErrSyntax, line)
	}
	name := fields[0]
	kind := strings.ToUpper(name[:1])
	if (kind == "R" || kind == "C" || kind == "L") && len(fields) < 4 {
		return fmt.Errorf("%w: %s needs n1 n2 value: %q", ErrSyntax, name, line)
	}

	switch kind {
	case "R":
		val, err := ParseValue(fields[3])
		if err != nil {
			return err
		}
		c.Resistors = append(c.Resistors, &circuit.Resistor{
			Name: name, N1: c.Nodes.GetOrCreate(fields[1]), N2: c.Nodes.GetOrCreate(fields[2]), R: val,
		})

	case "C":
		val, err := ParseValue(fields[3])
		if err != nil {
			return err
		}
		c.Capacitors = append(c.Capacitors, &circuit.Capacitor{
			Name: name, N1: c.Nodes.GetOrCreate(fields[1]), N2: c.Nodes.GetOrCreate(fields[2]), C: val,
		})

	case "L":
		val, err := ParseValue(fields[3])
		if err != nil {
			return err
		}
		c.Inductors = append(c.Inductors, &circuit.Inductor{
			Name: name, N1: c.Nodes.GetOrCreate(fields[1]), N2: c.Nodes.GetOrCreate(fields[2]), L: val,
		})

	case "V":
		return parseVoltageSource(c, name, fields)

	case "S":
		if len(fields) < 6 {
			return fmt.Errorf("%w: switch %s needs n1 n2 nc+ nc- model: %q", ErrSyntax, name, line)
		}
		c.Switches = append(c.Switches, &circuit.Switch{
			Name:      name,
			N1:        c.Nodes.GetOrCreate(fields[1]),
			N2:        c.Nodes.GetOrCreate(fields[2]),
			NCPos:     c.Nodes.GetOrCreate(fields[3]),
			NCNeg:     c.Nodes.GetOrCreate(fields[4]),
			ModelName: fields[5],
		})

	case "D":
		if len(fields) < 4 {
			return fmt.Errorf("%w: diode %s needs n+ n- model: %q", ErrSyntax, name, line)
		}
		c.Diodes = append(c.Diodes, &circuit.Diode{
			Name: name, NPlus: c.Nodes.GetOrCreate(fields[1]), NMinus: c.Nodes.GetOrCreate(fields[2]), ModelName: fields[3],
		})

	default:
		return fmt.Errorf("%w: unsupported element type %q", ErrSyntax, kind)
	}

	return nil
}

func parseVoltageSource(c *circuit.Circuit, name string, fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("%w: voltage source %s needs n1 n2: %v", ErrSyntax, name, fields)
	}
	v := &circuit.VoltageSource{Name: name, N1: c.Nodes.GetOrCreate(fields[1]), N2: c.Nodes.GetOrCreate(fields[2])}

	rest := strings.Join(fields[3:], " ")
	rest = strings.ReplaceAll(rest, "(", " ( ")
	rest = strings.ReplaceAll(rest, ")", " ) ")
	words := strings.Fields(rest)

	for i := 0; i < len(words); {
		kw := strings.ToUpper(words[i])
		if (kw == "DC" || kw == "AC") && i+1 >= len(words) {
			return fmt.Errorf("%w: voltage source %s: %s needs a value", ErrSyntax, name, kw)
		}
		switch kw {
		case "DC":
			val, err := ParseValue(words[i+1])
			if err != nil {
				return err
			}
			v.DC = val
			i += 2

		case "AC":
			mag, err := ParseValue(words[i+1])
			if err != nil {
				return err
			}
			v.ACMag = mag
			i += 2
			if i < len(words) {
				if phase, err := ParseValue(words[i]); err == nil {
					v.ACPhaseDeg = phase
					i++
				}
			}

		case "PULSE":
			args, next, err := parseParenGroup(words, i+1)
			if err != nil {
				return err
			}
			wf, err := parsePulseArgs(args)
			if err != nil {
				return err
			}
			v.Waveform = wf
			i = next

		case "PWL":
			args, next, err := parseParenGroup(words, i+1)
			if err != nil {
				return err
			}
			times, values, err := parsePWLArgs(args)
			if err != nil {
				return err
			}
			v.Waveform = waveform.NewPWL(times, values)
			i = next

		default:
			return fmt.Errorf("%w: unsupported voltage source keyword %q", ErrSyntax, words[i])
		}
	}

	c.VoltageSources = append(c.VoltageSources, v)
	return nil
}

// parseParenGroup expects words[start] == "(" and returns the tokens up to
// the matching ")", plus the index just past it.
func parseParenGroup(words []string, start int) ([]string, int, error) {
	if start >= len(words) || words[start] != "(" {
		return nil, 0, fmt.Errorf("%w: expected '(' at position %d", ErrSyntax, start)
	}
	for end := start + 1; end < len(words); end++ {
		if words[end] == ")" {
			return words[start+1 : end], end + 1, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: unterminated parameter list", ErrSyntax)
}

func parsePulseArgs(args []string) (*waveform.Waveform, error) {
	if len(args) < 6 {
		return nil, fmt.Errorf("%w: PULSE requires v1 v2 td tr tf pw [period] [ncycles]", ErrSyntax)
	}
	vals := make([]float64, len(args))
	for i, a := range args {
		v, err := ParseValue(a)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	period := vals[5]
	if len(vals) > 6 {
		period = vals[6]
	}
	ncycles := 0.0
	if len(vals) > 7 {
		ncycles = vals[7]
	}
	return waveform.NewPulse(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], period, ncycles), nil
}

func parsePWLArgs(args []string) ([]float64, []float64, error) {
	if len(args) < 4 || len(args)%2 != 0 {
		return nil, nil, fmt.Errorf("%w: PWL requires pairs of time value", ErrSyntax)
	}
	n := len(args) / 2
	times := make([]float64, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		t, err := ParseValue(args[2*i])
		if err != nil {
			return nil, nil, err
		}
		v, err := ParseValue(args[2*i+1])
		if err != nil {
			return nil, nil, err
		}
		times[i], values[i] = t, v
	}
	return times, values, nil
}

func parseDotCommand(c *circuit.Circuit, line string) error {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ".model":
		return parseDotModel(c, fields[1:], line)
	case ".ac":
		return parseDotAC(c, fields[1:])
	case ".tran":
		return parseDotTran(c, fields[1:])
	case ".print":
		c.Probes = append(c.Probes, parseProbes(fields[1:])...)
		return nil
	default:
		return fmt.Errorf("%w: unsupported dot command %q", ErrSyntax, fields[0])
	}
}

var probeRe = regexp.MustCompile(`(?i)^[vi]\((.+)\)$`)

// parseProbes extracts node names from a .print directive's token list,
// skipping a leading analysis-type marker (TRAN/AC/DC) and unwrapping
// V(node) / I(node) syntax down to the bare node name.
func parseProbes(fields []string) []string {
	var probes []string
	for _, f := range fields {
		switch strings.ToUpper(f) {
		case "TRAN", "AC", "DC":
			continue
		}
		if m := probeRe.FindStringSubmatch(f); m != nil {
			probes = append(probes, m[1])
			continue
		}
		probes = append(probes, f)
	}
	return probes
}

func parseDotAC(c *circuit.Circuit, fields []string) error {
	if len(fields) < 4 {
		return fmt.Errorf("%w: .ac requires mode n fstart fstop", ErrSyntax)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("%w: invalid .ac point count: %v", ErrSyntax, err)
	}
	f1, err := ParseValue(fields[2])
	if err != nil {
		return err
	}
	f2, err := ParseValue(fields[3])
	if err != nil {
		return err
	}
	c.AC = &circuit.ACSpec{Mode: strings.ToLower(fields[0]), N: n, F1: f1, F2: f2}
	return nil
}

func parseDotTran(c *circuit.Circuit, fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("%w: .tran requires dt tstop", ErrSyntax)
	}
	dt, err := ParseValue(fields[0])
	if err != nil {
		return err
	}
	tstop, err := ParseValue(fields[1])
	if err != nil {
		return err
	}
	c.TRAN = &circuit.TranSpec{Dt: dt, Tstop: tstop}
	return nil
}

func parseDotModel(c *circuit.Circuit, fields []string, line string) error {
	if len(fields) < 2 {
		return fmt.Errorf("%w: .model requires name and type: %q", ErrSyntax, line)
	}
	name := fields[0]
	typeField := fields[1]

	openParen := strings.Contains(typeField, "(")
	modelType := strings.ToUpper(strings.SplitN(typeField, "(", 2)[0])

	var paramStr string
	if openParen {
		rest := strings.Join(append([]string{strings.SplitN(typeField, "(", 2)[1]}, fields[2:]...), " ")
		paramStr = strings.TrimSuffix(rest, ")")
	} else {
		paramStr = strings.TrimSuffix(strings.TrimPrefix(strings.Join(fields[2:], " "), "("), ")")
	}

	params := map[string]float64{}
	for _, pair := range strings.Fields(paramStr) {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		val, err := ParseValue(kv[1])
		if err != nil {
			return fmt.Errorf("%w: invalid .model parameter %q: %v", ErrSyntax, pair, err)
		}
		params[strings.ToLower(kv[0])] = val
	}

	switch modelType {
	case "SW", "VSWITCH":
		model := &circuit.SwitchModel{Name: name, Ron: 1.0, Roff: 1e9, Von: 1.0, Voff: 0.5}
		applyParam(params, "ron", &model.Ron)
		applyParam(params, "roff", &model.Roff)
		if vt, ok := params["vt"]; ok {
			vh := params["vh"]
			model.Von = vt + vh/2
			model.Voff = vt - vh/2
		}
		applyParam(params, "von", &model.Von)
		applyParam(params, "voff", &model.Voff)
		c.SwitchModels[strings.ToLower(name)] = model

	case "D":
		model := &circuit.DiodeModel{Name: name, Is: 1e-14, N: 1.0}
		applyParam(params, "is", &model.Is)
		applyParam(params, "n", &model.N)
		c.DiodeModels[strings.ToLower(name)] = model

	default:
		return fmt.Errorf("%w: unsupported model type %q", ErrSyntax, modelType)
	}

	return nil
}

func applyParam(params map[string]float64, key string, dst *float64) {
	if v, ok := params[key]; ok {
		*dst = v
	}
}
