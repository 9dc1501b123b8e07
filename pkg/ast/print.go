package ast

import (
	"fmt"
	"slices"
	"strings"
)

const indentBlock = "  "

// PrintConfig tunes DebugPrint.
type PrintConfig struct {
	SkipEmptyCollections bool
	SkipNil              bool
	ForceShowRange       bool
	// Hide lists feature names left out of the output.
	Hide []string
}

// DebugPrint renders the subtree under n as indented text. Containments are
// expanded, references print only their name and state.
func DebugPrint(n Node, cfg PrintConfig) string {
	var sb strings.Builder

	debugPrint(&sb, n, "", cfg)

	return sb.String()
}

func debugPrint(sb *strings.Builder, n Node, indent string, cfg PrintConfig) {
	name := TypeName(n)

	desc, err := Describe(n)
	if err != nil || (len(desc.Features) == 0 && !cfg.ForceShowRange) {
		sb.WriteString(indent + name + "\n")

		return
	}

	sb.WriteString(indent + name + " {\n")

	inner := indent + indentBlock

	for _, f := range desc.Features {
		if slices.Contains(cfg.Hide, f.Name) {
			continue
		}

		switch f.Kind {
		case KindContainment:
			printContainment(sb, n, f, inner, cfg)
		case KindReference:
			r := f.Reference(n)
			if r == nil {
				if !cfg.SkipNil {
					sb.WriteString(inner + f.Name + " = null\n")
				}

				continue
			}

			fmt.Fprintf(sb, "%s%s = %v\n", inner, f.Name, r)
		default:
			v := f.Get(n)
			if IsNil(v) && cfg.SkipNil {
				continue
			}

			if IsNil(v) {
				v = "null"
			}

			fmt.Fprintf(sb, "%s%s = %v\n", inner, f.Name, v)
		}
	}

	if cfg.ForceShowRange {
		if r := n.Range(); r != nil {
			sb.WriteString(inner + "range = " + r.String() + "\n")
		} else if !cfg.SkipNil {
			sb.WriteString(inner + "range = null\n")
		}
	}

	sb.WriteString(indent + "} // " + name + "\n")
}

func printContainment(sb *strings.Builder, n Node, f Feature, indent string, cfg PrintConfig) {
	children := f.Children(n)

	if !f.IsMany() {
		if len(children) == 0 {
			if !cfg.SkipNil {
				sb.WriteString(indent + f.Name + " = null\n")
			}

			return
		}
	} else if len(children) == 0 {
		if !cfg.SkipEmptyCollections {
			sb.WriteString(indent + f.Name + " = []\n")
		}

		return
	}

	sb.WriteString(indent + f.Name + " = [\n")

	for _, c := range children {
		debugPrint(sb, c, indent+indentBlock, cfg)
	}

	sb.WriteString(indent + "]\n")
}
