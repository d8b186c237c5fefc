package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
)

var getCmd = &cobra.Command{
	Use:   "get <document.fxb> <path>",
	Short: "Extract a single value from a FlexBuffers document",
	Long: `Extract a single value from a FlexBuffers document. path is a
dotted sequence of map keys and bracketed vector indices, e.g.
"users[0].name" or "tags[2]". An empty path selects the document root.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		root, err := flexbuffers.GetRoot(buf)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}

		ref, err := resolvePath(root, args[1])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderScalar(ref))
		return nil
	},
}

type pathStep struct {
	key   string
	index int
	isKey bool
}

func parsePath(path string) ([]pathStep, error) {
	if path == "" {
		return nil, nil
	}
	var steps []pathStep
	for _, segment := range strings.Split(path, ".") {
		name, indices, err := splitIndices(segment)
		if err != nil {
			return nil, err
		}
		if name != "" {
			steps = append(steps, pathStep{key: name, isKey: true})
		}
		for _, idx := range indices {
			steps = append(steps, pathStep{index: idx})
		}
	}
	return steps, nil
}

func splitIndices(segment string) (string, []int, error) {
	name := segment
	var indices []int
	for {
		open := strings.IndexByte(name, '[')
		if open == -1 {
			break
		}
		shut := strings.IndexByte(name[open:], ']')
		if shut == -1 {
			return "", nil, fmt.Errorf("malformed path segment %q: missing ]", segment)
		}
		shut += open
		idx, err := strconv.Atoi(name[open+1 : shut])
		if err != nil {
			return "", nil, fmt.Errorf("malformed path segment %q: %w", segment, err)
		}
		indices = append(indices, idx)
		name = name[:open] + name[shut+1:]
	}
	return name, indices, nil
}

func resolvePath(ref flexbuffers.Reference, path string) (flexbuffers.Reference, error) {
	steps, err := parsePath(path)
	if err != nil {
		return flexbuffers.Reference{}, err
	}
	for _, step := range steps {
		if step.isKey {
			if ref.Type() != flexbuffers.TypeMap {
				return flexbuffers.Reference{}, fmt.Errorf("cannot index key %q into non-map value", step.key)
			}
			v, ok := ref.AsMap().Get(step.key)
			if !ok {
				return flexbuffers.Reference{}, fmt.Errorf("key %q not found", step.key)
			}
			ref = v
			continue
		}
		if !ref.Type().IsVector() {
			return flexbuffers.Reference{}, fmt.Errorf("cannot index [%d] into non-vector value", step.index)
		}
		vec := ref.AsVector()
		if step.index < 0 || step.index >= vec.Len() {
			return flexbuffers.Reference{}, fmt.Errorf("index %d out of range (len %d)", step.index, vec.Len())
		}
		ref = vec.Index(step.index)
	}
	return ref, nil
}

func renderScalar(ref flexbuffers.Reference) string {
	switch {
	case ref.IsNull():
		return "null"
	case ref.Type() == flexbuffers.TypeString:
		return ref.AsString()
	case ref.Type() == flexbuffers.TypeBlob:
		return fmt.Sprintf("%x", ref.AsBlob())
	case ref.Type() == flexbuffers.TypeBool:
		return fmt.Sprintf("%v", ref.AsBool())
	case ref.Type() == flexbuffers.TypeFloat || ref.Type() == flexbuffers.TypeIndirectFloat:
		return fmt.Sprintf("%v", ref.AsDouble())
	case ref.Type() == flexbuffers.TypeInt || ref.Type() == flexbuffers.TypeIndirectInt:
		return fmt.Sprintf("%v", ref.AsInt())
	case ref.Type() == flexbuffers.TypeUint || ref.Type() == flexbuffers.TypeIndirectUint:
		return fmt.Sprintf("%v", ref.AsUint())
	default:
		return fmt.Sprintf("<%s>", ref.Type())
	}
}

func init() {
	rootCmd.AddCommand(getCmd)
}
