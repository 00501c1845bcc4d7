// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config holds per-model rendering configuration for the response
// pipeline.
//
// Each model provider "speaks" its own dialect of markdown and math
// notation, so the pipeline is parameterized by a RendererConfig: which
// delimiter patterns mark math regions, which cleanup passes run, which
// markdown features are enabled, and how the math typesetter is bounded.
//
// Configs are registered once at startup into a Registry and are immutable
// afterwards; concurrent lookups are safe. Lookup by model identifier falls
// back to a built-in default config that replicates the pre-model-aware
// behavior of the renderer.
//
// Configs can be loaded from a static TOML file (LoadFile/LoadReader) or
// registered programmatically.
package config
