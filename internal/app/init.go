package app

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// starterRecipe builds the nik2img utility against a core library built elsewhere.
const starterRecipe = `version: "1"

environment:
  LIBMAPNIK_CXXFLAGS: ["-O2", "-std=c++14"]
  LIBMAPNIK_DEFINES: ["-DMAPNIK_THREADSAFE"]
  LIBMAPNIK_LIBS: ["png", "jpeg", "tiff", "icuuc", "freetype"]
  MAPNIK_NAME: mapnik
  MAPNIK_LIB_NAME: libmapnik.so
  BOOST_APPEND: ""
  RUNTIME_LINK: shared
  PLATFORM: Linux
  HAS_CAIRO: false
  CAIRO_CPPPATHS: []
  INSTALL_PREFIX: /usr/local

targets:
  - name: nik2img
    dir: utils/nik2img
    sources:
      - nik2img.cpp
`

// Init writes a starter recipe to path, or recipe.yaml when path is empty.
// An existing file is never overwritten.
func (a *App) Init(path string) error {
	if path == "" {
		path = domain.RecipeFileName
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, domain.FilePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return zerr.With(zerr.Wrap(domain.ErrRecipeExists, path), "path", path)
		}
		return zerr.With(zerr.Wrap(err, "failed to create recipe file"), "path", path)
	}

	if _, err := f.WriteString(starterRecipe); err != nil {
		_ = f.Close()
		return zerr.With(zerr.Wrap(err, "failed to write recipe file"), "path", path)
	}
	if err := f.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write recipe file"), "path", path)
	}

	a.logger.Info("created " + path)
	return nil
}
