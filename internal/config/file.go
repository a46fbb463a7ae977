package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
	"golang.org/x/mod/semver"
)

const FileName = "esmlink.toml"

// File is the TOML project file. Every field is optional; unset fields keep
// the command-line defaults.
type File struct {
	Entry             string `toml:"entry,omitempty"`
	Outfile           string `toml:"outfile,omitempty"`
	Format            string `toml:"format,omitempty"`
	GlobalName        string `toml:"global-name,omitempty"`
	DangerLevel       string `toml:"danger-level,omitempty"`
	UnresolvedImports string `toml:"unresolved-imports,omitempty"`
	Exports           string `toml:"exports,omitempty"`
	ForbidCircular    *bool  `toml:"forbid-circular,omitempty"`
	FatalAssignment   *bool  `toml:"fatal-import-assignment,omitempty"`
	RejectAssignment  *bool  `toml:"reject-import-assignment,omitempty"`
	PlainNamespaces   *bool  `toml:"plain-namespaces,omitempty"`
	TreeShaking       *bool  `toml:"tree-shaking,omitempty"`
	Version           string `toml:"esmlink-version,omitempty"`
}

// LoadFile reads and decodes a project file. A missing file is not an error
// when "optional" is set; the result is nil in that case.
func LoadFile(path string, optional bool) (*File, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return ParseFile(buff)
}

func ParseFile(buff []byte) (*File, error) {
	file := &File{}
	if err := toml.Unmarshal(buff, file); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return file, nil
}

// CheckVersion fails when the file asks for a newer tool than "current".
// Both are semantic versions with a leading "v".
func (file *File) CheckVersion(current string) error {
	if file.Version == "" {
		return nil
	}
	if !semver.IsValid(file.Version) {
		return fmt.Errorf("invalid esmlink-version %q", file.Version)
	}
	if semver.IsValid(current) && semver.Compare(current, file.Version) < 0 {
		return fmt.Errorf("this project needs esmlink %s or newer (running %s)", file.Version, current)
	}
	return nil
}

// Apply copies every field that is set onto "options".
func (file *File) Apply(options *Options) error {
	var err error
	if file.Format != "" {
		if options.OutputFormat, err = ParseFormat(file.Format); err != nil {
			return err
		}
	}
	if file.DangerLevel != "" {
		if options.DangerLevel, err = ParseDangerLevel(file.DangerLevel); err != nil {
			return err
		}
	}
	if file.UnresolvedImports != "" {
		if options.UnresolvedImports, err = ParseUnresolvedImportStrategy(file.UnresolvedImports); err != nil {
			return err
		}
	}
	if file.Exports != "" {
		if options.ExportStrategy, err = ParseExportStrategy(file.Exports); err != nil {
			return err
		}
	}
	if file.GlobalName != "" {
		options.GlobalName = file.GlobalName
	}
	if file.ForbidCircular != nil {
		options.ForbidCircularDependencies = *file.ForbidCircular
	}
	if file.FatalAssignment != nil {
		options.FatalImportAssignment = *file.FatalAssignment
	}
	if file.RejectAssignment != nil {
		options.RejectImportAssignment = *file.RejectAssignment
	}
	if file.PlainNamespaces != nil {
		options.PlainNamespaceObjects = *file.PlainNamespaces
	}
	if file.TreeShaking != nil {
		options.SkipDeadCodeElimination = !*file.TreeShaking
	}
	return nil
}
