package imports

import (
	"bufio"
	"bytes"
	"io"
	"os"
)

var lineTerminator = []byte("\n")

type GraphQLFile struct {
	RelativePath string
	Imports      []GraphQLFile

	absolutePath string
}

// Files returns the file and all of its imports depth first, the importing file before its imports.
func (g GraphQLFile) Files() []GraphQLFile {
	var out []GraphQLFile
	if g.RelativePath != "" {
		out = append(out, g)
	}
	for _, importFile := range g.Imports {
		out = append(out, importFile.Files()...)
	}
	return out
}

func (g GraphQLFile) AbsolutePath() string {
	return g.absolutePath
}

// Content reads the file with all import statements removed.
func (g GraphQLFile) Content() ([]byte, error) {
	filePath := g.absolutePath
	if filePath == "" {
		filePath = g.RelativePath
	}
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return StripImports(content), nil
}

func (g GraphQLFile) Render(printFilePath bool, out io.Writer) error {
	return g.render(printFilePath, out)
}

func (g GraphQLFile) render(printFilePath bool, out io.Writer) error {
	var err error
	if g.RelativePath != "" {
		err = g.renderSelf(printFilePath, out)
		if err != nil {
			return err
		}
	}

	for _, importFile := range g.Imports {
		if printFilePath {
			_, err = out.Write(lineTerminator)
			if err != nil {
				return err
			}
			_, err = out.Write(lineTerminator)
			if err != nil {
				return err
			}
		}
		err = importFile.render(printFilePath, out)
		if err != nil {
			return err
		}
	}

	return nil
}

func (g GraphQLFile) renderSelf(printFilePath bool, out io.Writer) error {
	content, err := g.Content()
	if err != nil {
		return err
	}

	if printFilePath {
		err = g.renderFilePath(out)
		if err != nil {
			return err
		}
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 && len(line) > 0 {
			line = nil
		}

		_, err = out.Write(line)
		if err != nil {
			return err
		}

		_, err = out.Write(lineTerminator)
		if err != nil {
			return err
		}
	}

	return scanner.Err()
}

func (g GraphQLFile) renderFilePath(out io.Writer) error {
	_, err := out.Write([]byte("#file: " + g.RelativePath + "\n\n"))
	return err
}
