// Package lintfixture holds sample MustParse call sites used only by
// internal/lint's tests.
package lintfixture

import "github.com/jahlborn/jackcessgo/expr"

var valid = expr.MustParse(`[Age] > 18`)

var invalid = expr.MustParse(`[Age] >`)
