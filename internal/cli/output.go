package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/spanlane/pkg/modelfile"
	"github.com/matzehuels/spanlane/pkg/pipeline"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// outputBase derives the path prefix for generated files: output with any
// known artifact suffix removed, or the model name when output is empty.
func outputBase(output string, opts pipeline.Options) string {
	if output != "" {
		return stripArtifactExt(output)
	}
	if opts.ModelFile != "" {
		name := filepath.Base(opts.ModelFile)
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return opts.Model
}

func stripArtifactExt(path string) string {
	for _, f := range pipeline.Formats {
		if ext := pipeline.Extension(f); strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	if ext := filepath.Ext(path); modelfile.IsModelFile(path) {
		return strings.TrimSuffix(path, ext)
	}
	return path
}

// artifactPaths maps each format to its output file. A single format is
// written to output verbatim when output already carries that format's
// extension; otherwise output only provides the base name.
func artifactPaths(formats []string, output string, opts pipeline.Options) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && strings.HasSuffix(output, pipeline.Extension(formats[0])) {
		paths[formats[0]] = output
		return paths
	}
	base := outputBase(output, opts)
	for _, f := range formats {
		paths[f] = base + pipeline.Extension(f)
	}
	return paths
}

// writeArtifacts writes every artifact in format order and prints the paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string, opts pipeline.Options) error {
	paths := artifactPaths(formats, output, opts)
	for _, f := range formats {
		if err := writeFile(paths[f], artifacts[f]); err != nil {
			return err
		}
		printFile(paths[f])
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func writeTrace(w io.Writer, t schema.Trace) error {
	return schema.WriteTrace(t, w)
}

func writeTraceFile(path string, t schema.Trace) error {
	data, err := schema.MarshalTrace(t)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}
