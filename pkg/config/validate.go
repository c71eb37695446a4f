package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/tribble/pkg/domain"
	"github.com/aretw0/tribble/pkg/schema"
)

// ValidateWorkflow checks the structural rules a decoded workflow must obey.
// It does not check progression links; see ValidateLinks.
func ValidateWorkflow(wf *domain.Workflow) error {
	errs := &schema.AggregateError{}
	validateWorkflow(keyWorkflows+"."+wf.Name, wf, errs)
	return errs.ErrOrNil()
}

// ValidateLinks reports every progression whose link names neither a section
// nor an endpoint of wf.
func ValidateLinks(wf *domain.Workflow) error {
	errs := &schema.AggregateError{}
	validateLinks(keyWorkflows+"."+wf.Name, wf, errs)
	return errs.ErrOrNil()
}

func validateConfig(cfg *domain.Config, links bool, errs *schema.AggregateError) {
	for _, name := range slices.Sorted(maps.Keys(cfg.Workflows)) {
		path := keyWorkflows + "." + name
		validateWorkflow(path, cfg.Workflows[name], errs)
		if links {
			validateLinks(path, cfg.Workflows[name], errs)
		}
	}
}

func validateWorkflow(path string, wf *domain.Workflow, errs *schema.AggregateError) {
	if wf.Index == "" {
		errs.Add(path+".index", "must name a section", nil)
	} else if _, ok := wf.Sections[wf.Index]; !ok {
		errs.Add(path+".index", "does not name a section", wf.Index)
	}
	checkTags(path+".tags", wf.Tags, errs)

	for _, name := range wf.SectionNames() {
		spath := path + ".sections." + name
		if domain.Location(name).IsEndpoint() {
			errs.Add(spath, "section names must not start with "+domain.EndpointPrefix, nil)
		}
		ids := make(map[string]bool)
		for i, elem := range wf.Sections[name] {
			epath := fmt.Sprintf("%s[%d]", spath, i)
			switch elem.Kind {
			case domain.ElementProgression:
				checkTags(epath+".tags", elem.Progression.Tags, errs)
			case domain.ElementInput:
				if ids[elem.Input.ID] {
					errs.Add(epath+".id", "duplicate input id in section", elem.Input.ID)
				}
				ids[elem.Input.ID] = true
				validateInput(epath, elem.Input, errs)
			}
		}
	}
}

func validateInput(path string, in *domain.InputElement, errs *schema.AggregateError) {
	if strings.TrimSpace(in.ID) == "" {
		errs.Add(path+".id", "must not be blank", nil)
	}
	if in.Select != nil {
		validateSelect(path, in, errs)
		return
	}
	t := in.TextLike
	if t == nil {
		errs.Add(path, "input must be text-like or select", nil)
		return
	}

	switch t.Type {
	case domain.InputNumber, domain.InputRange:
		if t.Type == domain.InputRange && (t.Min == nil || t.Max == nil) {
			errs.Add(path, "range inputs require min and max", nil)
		}
		if t.Min != nil && t.Max != nil && *t.Min > *t.Max {
			errs.Add(path+".min", fmt.Sprintf("must not exceed max (%d)", *t.Max), *t.Min)
		}
	default:
		if t.Min != nil || t.Max != nil {
			errs.Add(path, "min and max only apply to number and range inputs", nil)
		}
	}

	if t.Type == domain.InputBoolean {
		checkTags(path+".tags", t.Tags, errs)
		if in.Default != nil && *in.Default != "true" && *in.Default != "false" {
			errs.Add(path+".default", "boolean default must be true or false", *in.Default)
		}
	} else if len(t.Tags) > 0 {
		errs.Add(path+".tags", "tags only apply to boolean inputs", nil)
	}
}

func validateSelect(path string, in *domain.InputElement, errs *schema.AggregateError) {
	sel := in.Select
	if len(sel.Options) == 0 {
		errs.Add(path+".options", "select inputs need at least one option", nil)
	}
	options := make(map[string]bool, len(sel.Options))
	for i, opt := range sel.Options {
		opath := fmt.Sprintf("%s.options[%d]", path, i)
		switch {
		case opt.Text == "":
			errs.Add(opath, "option text must not be empty", nil)
		case strings.Contains(opt.Text, ","):
			errs.Add(opath, "option text must not contain a comma", opt.Text)
		case options[opt.Text]:
			errs.Add(opath, "duplicate option", opt.Text)
		}
		options[opt.Text] = true
		checkTags(opath+".tags", opt.Tags, errs)
	}
	if in.Default != nil {
		for _, v := range sel.Split(*in.Default) {
			if !options[v] {
				errs.Add(path+".default", "is not one of the options", v)
			}
		}
	}
}

func checkTags(path string, tags []string, errs *schema.AggregateError) {
	for i, tag := range tags {
		tpath := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case tag == "":
			errs.Add(tpath, "tag must not be empty", nil)
		case strings.Contains(tag, ","):
			errs.Add(tpath, "tag must not contain a comma", tag)
		}
	}
}

func validateLinks(path string, wf *domain.Workflow, errs *schema.AggregateError) {
	for _, name := range wf.SectionNames() {
		for i, elem := range wf.Sections[name] {
			if elem.Kind != domain.ElementProgression {
				continue
			}
			if _, ok := wf.Resolve(elem.Progression.Link); !ok {
				errs.Add(fmt.Sprintf("%s.sections.%s[%d].link", path, name, i), "does not name a section or endpoint", elem.Progression.Link)
			}
		}
	}
}
