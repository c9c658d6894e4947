package mapping

import (
	"fmt"

	"transmute/engine"
	"transmute/internal/common"
	"transmute/internal/diagnostic"
	"transmute/internal/match"
)

// Validate checks sf against the transforms in reg.
func Validate(sf *SchemaFile, reg *Registry) *diagnostic.Diagnostics {
	return NewCompiler(reg).Validate(sf)
}

// Validate checks a schema file. It is a structural check: sources are not
// known until a record arrives, so paths are only checked for syntax.
func (c *Compiler) Validate(sf *SchemaFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if sf == nil {
		res.AddError("schema_is_nil", "schema file is nil", "", "")
		return res
	}

	if sf.Version != "" && sf.Version != CurrentVersion {
		res.AddError("unsupported_version",
			fmt.Sprintf("schema version %q not supported (want %q)", sf.Version, CurrentVersion), "version", "")
	}

	if _, err := engine.ParseMissingPolicy(sf.OnMissing); err != nil {
		res.AddError("invalid_on_missing", err.Error(), "on_missing", sf.OnMissing)
	}

	c.validateTransformDefs(res, sf)

	targets := map[string]string{}

	for _, source := range common.SortedKeys(sf.OneToOne) {
		loc := fmt.Sprintf("121[%s]", source)
		target := sf.OneToOne[source]

		if target == "" {
			res.AddError("missing_target", "shorthand entry must name a target", loc, source)
			continue
		}

		if _, err := ParsePath(source); err != nil {
			res.AddError("invalid_path", err.Error(), loc, source)
		}

		noteTarget(res, targets, target, loc)
	}

	for i := range sf.Rules {
		rd := &sf.Rules[i]
		loc := fmt.Sprintf("rules[%d]", i)

		c.validateRule(res, rd, loc)

		if rd.To != "" {
			noteTarget(res, targets, rd.To, loc)
		}
	}

	return res
}

func (c *Compiler) validateTransformDefs(res *diagnostic.Diagnostics, sf *SchemaFile) {
	seen := map[string]struct{}{}

	for i := range sf.Transforms {
		def := &sf.Transforms[i]
		loc := fmt.Sprintf("transforms[%d]", i)

		if def.Name == "" {
			res.AddError("missing_transform_name", "transform entry must have a name", loc, "")
			continue
		}

		if _, ok := seen[def.Name]; ok {
			res.AddError("duplicate_transform", fmt.Sprintf("duplicate transform %q", def.Name), loc, def.Name)
			continue
		}

		seen[def.Name] = struct{}{}

		if !c.registry.Has(def.Name) {
			res.AddWarning("unregistered_transform",
				fmt.Sprintf("transform %q is documented but not registered", def.Name), loc, def.Name)
		}
	}
}

func (c *Compiler) validateRule(res *diagnostic.Diagnostics, rd *RuleDef, loc string) {
	if rd.To == "" {
		res.AddError("missing_target", "rule must name a target", loc, "")
	}

	if rd.From.IsEmpty() && rd.Transform == "" && rd.Expr == "" && !rd.HasDefault() {
		res.AddError("missing_source", "rule needs from, transform, expr or default", loc, rd.To)
	}

	if rd.Transform != "" && rd.Expr != "" {
		res.AddError("conflicting_source", "transform and expr are mutually exclusive", loc, rd.To)
	}

	if rd.From.IsMultiple() && rd.Transform == "" && rd.Expr == "" {
		res.AddError("multi_source_needs_transform",
			fmt.Sprintf("%d source keys need a transform or expr to combine them", len(rd.From)), loc, rd.To)
	}

	for _, from := range rd.From {
		if _, err := ParsePath(from); err != nil {
			res.AddError("invalid_path", err.Error(), loc, from)
		}
	}

	if rd.Transform != "" && !c.registry.Has(rd.Transform) {
		res.Errors = append(res.Errors, diagnostic.Diagnostic{
			Severity:    diagnostic.SeverityError,
			Code:        "unknown_transform",
			Message:     fmt.Sprintf("transform %q is not registered", rd.Transform),
			Location:    loc,
			Field:       rd.To,
			Suggestions: match.RankCandidates(rd.Transform, c.registry.Names()).AboveThreshold(suggestionMinScore).Top(3).Keys(),
		})
	}

	if rd.Expr != "" {
		if _, err := c.exprs.Compile(rd.Expr); err != nil {
			res.AddError("invalid_expr", fmt.Sprintf("invalid expression: %v", err), loc, rd.To)
		}
	}
}

func noteTarget(res *diagnostic.Diagnostics, seen map[string]string, target, loc string) {
	if prev, ok := seen[target]; ok {
		res.AddWarning("duplicate_target",
			fmt.Sprintf("target %q is also written by %s; the later rule wins", target, prev), loc, target)
	}

	seen[target] = loc
}
