package codegen

import (
	"fmt"
	"go/ast"
	"go/build"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Package is a type checked package ready for Extract.
type Package struct {
	PackageInfo

	Fset      *token.FileSet
	Types     *types.Package
	Files     []*ast.File
	TypesInfo *types.Info
}

// Load loads and type checks the package in dir.
func Load(dir string) (*Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedImports |
			packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir: dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load package in %q: %w", dir, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no package in %q", dir)
	}
	p := pkgs[0]
	// type errors elsewhere in the package, such as from a stale generated
	// file, do not prevent reading the shapes.
	if p.Types == nil || p.TypesInfo == nil {
		if len(p.Errors) > 0 {
			return nil, fmt.Errorf("failed to load package in %q: %v", dir, p.Errors[0])
		}
		return nil, fmt.Errorf("package in %q has no type information", dir)
	}
	return &Package{
		PackageInfo: PackageInfo{Path: p.PkgPath, Dir: dir, Name: p.Name},
		Fset:        p.Fset,
		Types:       p.Types,
		Files:       p.Syntax,
		TypesInfo:   p.TypesInfo,
	}, nil
}

// DiscoverPackages finds the Go packages in dir, and in its
// subdirectories if recursive is true.
func DiscoverPackages(dir string, recursive bool) ([]*PackageInfo, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %q: %w", dir, err)
	}
	var res []*PackageInfo
	err = filepath.Walk(absDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if path != absDir && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata") {
			return filepath.SkipDir
		}
		if !recursive && path != absDir {
			return filepath.SkipDir
		}
		pkg, err := build.ImportDir(path, 0)
		if err != nil || len(pkg.GoFiles) == 0 {
			return nil
		}
		res = append(res, &PackageInfo{
			Path: pkg.ImportPath,
			Dir:  path,
			Name: pkg.Name,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %q: %w", dir, err)
	}
	return res, nil
}
