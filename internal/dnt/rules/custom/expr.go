package custom

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
	"github.com/haukened/discourse-new-tab/internal/dnt/rules/predicate"
	"github.com/haukened/discourse-new-tab/internal/dnt/services/classify"
)

var (
	// ErrInvalidExpression is returned when a match expression does not
	// compile or does not produce a bool.
	ErrInvalidExpression = errors.New("invalid match expression")
	// ErrNotBool is returned when an expression yields a non-bool at runtime.
	ErrNotBool = errors.New("match expression did not return a bool")
)

// Compiler turns rule definitions into engine rules backed by CEL programs.
type Compiler struct {
	env        *cel.Env
	classifier *classify.Classifier
}

// NewCompiler builds the CEL environment. classifier may be nil.
func NewCompiler(classifier *classify.Classifier) (*Compiler, error) {
	env, err := cel.NewEnv(
		cel.Variable("current", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("target", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("anchor", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build expression environment: %w", err)
	}
	return &Compiler{env: env, classifier: classifier}, nil
}

// Compile checks def and returns the rule it describes.
func (c *Compiler) Compile(def Definition) (domain.Rule, error) {
	enabled, err := domain.ParseAction(def.EnabledAction)
	if err != nil {
		return domain.Rule{}, fmt.Errorf("rule %q: %w", def.ID, err)
	}
	disabled, err := domain.ParseAction(def.DisabledAction)
	if err != nil {
		return domain.Rule{}, fmt.Errorf("rule %q: %w", def.ID, err)
	}

	ast, iss := c.env.Compile(def.Match)
	if iss != nil && iss.Err() != nil {
		return domain.Rule{}, fmt.Errorf("%w: rule %q: %v", ErrInvalidExpression, def.ID, iss.Err())
	}
	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return domain.Rule{}, fmt.Errorf("%w: rule %q returns %s, want bool", ErrInvalidExpression, def.ID, out)
	}
	prg, err := c.env.Program(ast)
	if err != nil {
		return domain.Rule{}, fmt.Errorf("%w: rule %q: %v", ErrInvalidExpression, def.ID, err)
	}

	name := def.Name
	if name == "" {
		name = def.ID
	}
	rule := domain.Rule{
		ID:             def.ID,
		Name:           name,
		EnabledAction:  enabled,
		DisabledAction: disabled,
		Match: func(ctx domain.LinkContext) (*domain.MatchResult, error) {
			val, _, err := prg.Eval(c.vars(ctx))
			if err != nil {
				return nil, err
			}
			hit, ok := val.Value().(bool)
			if !ok {
				return nil, fmt.Errorf("%w: got %s", ErrNotBool, val.Type().TypeName())
			}
			if !hit {
				return nil, nil
			}
			return domain.MatchedWith("custom expression", map[string]any{"expr": def.Match}), nil
		},
	}
	if err := rule.Validate(); err != nil {
		return domain.Rule{}, err
	}
	return rule, nil
}

func (c *Compiler) vars(ctx domain.LinkContext) map[string]any {
	return map[string]any{
		"current": c.urlVars(ctx.CurrentURL, nil, ctx.CurrentURL),
		"target":  c.urlVars(ctx.TargetURL, ctx.CurrentURL, ctx.CurrentURL),
		"anchor":  anchorVars(ctx.Anchor),
	}
}

func (c *Compiler) urlVars(u, relativeTo, origin *url.URL) map[string]any {
	if u == nil {
		return map[string]any{
			"href": "", "host": "", "path": "", "query": "", "fragment": "",
			"kind": string(domain.PageUnknown), "topic_id": 0, "has_topic": false, "username": "", "same_origin": false,
		}
	}
	info := c.classifier.Classify(u, relativeTo)
	return map[string]any{
		"href":        u.String(),
		"host":        strings.ToLower(u.Hostname()),
		"path":        u.EscapedPath(),
		"query":       u.RawQuery,
		"fragment":    u.Fragment,
		"kind":        string(info.Kind),
		"topic_id":    info.TopicID,
		"has_topic":   info.HasTopic(),
		"username":    info.Username,
		"same_origin": origin != nil && strings.EqualFold(u.Scheme, origin.Scheme) && strings.EqualFold(u.Host, origin.Host),
	}
}

type attrLister interface {
	Attrs() map[string]string
}

func anchorVars(el domain.Element) map[string]any {
	vars := map[string]any{
		"tag": "", "text": "", "classes": []string{}, "attrs": map[string]string{},
		"in_sidebar": false, "in_user_card": false, "in_user_menu": false,
		"in_header": false, "in_search_results": false,
	}
	if el == nil {
		return vars
	}
	vars["tag"] = el.Tag()
	vars["text"] = el.Text()
	vars["classes"] = strings.Fields(el.ClassName())
	if al, ok := el.(attrLister); ok {
		if attrs := al.Attrs(); attrs != nil {
			vars["attrs"] = attrs
		}
	}
	vars["in_sidebar"] = predicate.IsInSidebar(el)
	vars["in_user_card"] = predicate.IsInUserCard(el)
	vars["in_user_menu"] = predicate.IsInUserMenu(el)
	vars["in_header"] = predicate.IsInHeader(el)
	vars["in_search_results"] = predicate.IsInSearchResults(el)
	return vars
}
