// Package pkg provides the libraries behind the cesium-native automate tool.
//
// # Overview
//
// The tool keeps the Conan packaging of the cesium-native libraries in step
// with their manifests. The pkg directory is organized as:
//
//  1. [manifest] - YAML manifests (cesium-native.yml, library.yml)
//  2. [registry] - the ordered set of libraries and their dependency graph
//  3. [dag] - dependency-order traversal and cycle detection
//  4. [recipe] - version resolution and generated recipes, conanfiles and workspace
//  5. [conan] - building and running Conan commands
//  6. [fixture] - binary glTF test fixtures
//  7. [render/nodelink], [io] - graph export as DOT, SVG and JSON
//
// # Architecture
//
//	cesium-native.yml + <Library>/library.yml
//	         ↓
//	    [manifest] (decode + validate)
//	         ↓
//	    [registry] → [dag] (dependency order)
//	         ↓
//	    [recipe] (conanfile.py, conanfile-<lib>.txt, workspace.cmake)
//	         ↓
//	    [conan] (create, install, export, editable)
//
// # Quick Start
//
//	native, _ := manifest.LoadNative(root)
//	reg, _ := registry.Load(root, native)
//	renderer, _ := recipe.NewRenderer()
//	em := recipe.NewEmitter(root, renderer, reg, native)
//
//	client := conan.NewClient(&conan.Exec{Dir: root}, "", "")
//	_ = reg.Walk(func(lib registry.Library) error {
//	    if _, err := em.WriteRecipe(ctx, lib); err != nil {
//	        return err
//	    }
//	    return client.Create(ctx, lib.Name, "Release")
//	}, nil)
//
// [manifest]: github.com/CesiumGS/cesium-native/pkg/manifest
// [registry]: github.com/CesiumGS/cesium-native/pkg/registry
// [dag]: github.com/CesiumGS/cesium-native/pkg/dag
// [recipe]: github.com/CesiumGS/cesium-native/pkg/recipe
// [conan]: github.com/CesiumGS/cesium-native/pkg/conan
// [fixture]: github.com/CesiumGS/cesium-native/pkg/fixture
// [render/nodelink]: github.com/CesiumGS/cesium-native/pkg/render/nodelink
// [io]: github.com/CesiumGS/cesium-native/pkg/io
package pkg
