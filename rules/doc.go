// Package rules evaluates expressions against loosely typed payloads such as
// captured events and breadcrumbs. Three engines share one Evaluator
// contract: expr-lang (default), CEL, and JavaScript through goja when built
// with the js_eval tag.
//
// Payload keys are exposed as top-level variables next to now, args and
// metadata, so a filter on an event payload reads like
//
//	level != "debug" && tags.env == "prod"
//
// Filter wraps a compiled rule that must yield a boolean.
package rules
