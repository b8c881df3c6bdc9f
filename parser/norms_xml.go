// parser/norms_xml.go
package parser

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

var normishTags = map[string]struct{}{
	"norm": {}, "rule": {}, "constraint": {},
	"obligation": {}, "prohibition": {}, "permission": {},
}

// ParseNormsXML reads an XML norm specification. The reader is schema
// flexible: it locates norm-like elements by tag name, pulls canonical
// fields from attributes first and child elements second, and infers the
// norm type from the type attribute or the tag itself.
func ParseNormsXML(path string) (model.ParsedNorms, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return model.ParsedNorms{}, fmt.Errorf("parsing XML norm file %s: %w", path, err)
	}
	root := doc.Root()
	if root == nil {
		return model.ParsedNorms{}, fmt.Errorf("parsing XML norm file %s: empty document", path)
	}

	elements := findNormElements(root)
	if len(elements) == 0 {
		logger.Warn("No norm elements found in XML document",
			zap.String("file", path),
			zap.String("rootTag", root.Tag))
	}

	norms := make([]model.Norm, 0, len(elements))
	for idx, el := range elements {
		norm := parseXMLNorm(el, idx)
		// Only elements with meaningful normative content survive.
		if (norm.Role != "" && norm.Mission != "") || norm.Action != "" {
			norms = append(norms, norm)
		} else {
			logger.Debug("Skipping XML element without normative content",
				zap.Int("index", idx),
				zap.String("tag", el.Tag))
		}
	}

	logger.Info("Parsed XML norm specification",
		zap.String("file", path),
		zap.Int("elements", len(elements)),
		zap.Int("norms", len(norms)))

	return model.NewParsedNorms(norms), nil
}

// findNormElements tries progressively looser strategies: explicit norm
// tags, norm-like children of a normative container, any norm-like tag
// anywhere, and finally the root's direct children.
func findNormElements(root *etree.Element) []*etree.Element {
	if els := root.FindElements("//norm"); len(els) > 0 {
		return els
	}

	for _, containerTag := range []string{"normative-specification", "norms", "rules"} {
		container := root.FindElement("//" + containerTag)
		if container == nil {
			continue
		}
		var els []*etree.Element
		for _, child := range container.ChildElements() {
			if _, ok := normishTags[strings.ToLower(child.Tag)]; ok {
				els = append(els, child)
			}
		}
		if len(els) > 0 {
			return els
		}
	}

	for _, tag := range []string{"rule", "constraint", "obligation", "prohibition", "permission"} {
		if els := root.FindElements("//" + tag); len(els) > 0 {
			return els
		}
	}

	return root.ChildElements()
}

func xmlAttr(el *etree.Element, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(el.SelectAttrValue(name, "")); v != "" {
			return v
		}
	}
	return ""
}

func xmlChildText(el *etree.Element, names ...string) string {
	for _, name := range names {
		if child := el.SelectElement(name); child != nil {
			if v := strings.TrimSpace(child.Text()); v != "" {
				return v
			}
		}
	}
	return ""
}

func inferNormTypeFromElement(el *etree.Element) model.NormType {
	if attr := strings.ToLower(xmlAttr(el, "type", "norm_type", "kind")); attr != "" {
		if model.NormType(attr).Valid() {
			return model.NormType(attr)
		}
	}
	tag := strings.ToLower(el.Tag)
	for _, nt := range []model.NormType{model.NormObligation, model.NormProhibition, model.NormPermission} {
		if strings.Contains(tag, string(nt)) {
			return nt
		}
	}
	return model.NormObligation
}

func parseXMLNorm(el *etree.Element, index int) model.Norm {
	normID := xmlAttr(el, "id", "norm_id", "name")
	if normID == "" {
		normID = xmlChildText(el, "id", "norm_id", "name")
	}
	if normID == "" {
		normID = fmt.Sprintf("norm_%d", index)
	}

	role := xmlAttr(el, "role", "agent_role", "agent")
	if role == "" {
		role = xmlChildText(el, "role", "agent_role", "agent", "actor")
	}
	mission := xmlAttr(el, "mission", "goal", "objective")
	if mission == "" {
		mission = xmlChildText(el, "mission", "goal", "objective", "purpose")
	}
	condition := xmlAttr(el, "condition", "when", "if", "precondition")
	if condition == "" {
		condition = xmlChildText(el, "condition", "when", "if", "precondition", "trigger")
	}
	action := xmlAttr(el, "action", "what", "behavior", "activity")
	if action == "" {
		action = xmlChildText(el, "action", "what", "behavior", "activity", "task")
	}

	consumedAttrs := map[string]struct{}{
		"id": {}, "norm_id": {}, "name": {}, "type": {}, "norm_type": {},
		"role": {}, "mission": {}, "goal": {}, "condition": {}, "when": {}, "action": {},
	}
	consumedChildren := map[string]struct{}{
		"id": {}, "norm_id": {}, "role": {}, "mission": {}, "goal": {},
		"condition": {}, "action": {}, "when": {}, "if": {},
	}

	metadata := make(map[string]any)
	for _, attr := range el.Attr {
		if _, consumed := consumedAttrs[attr.Key]; consumed {
			continue
		}
		if v := strings.TrimSpace(attr.Value); v != "" {
			metadata[attr.Key] = v
		}
	}
	for _, child := range el.ChildElements() {
		if _, consumed := consumedChildren[child.Tag]; consumed {
			continue
		}
		if v := strings.TrimSpace(child.Text()); v != "" {
			metadata[child.Tag] = v
		}
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	return model.Norm{
		NormID:    normID,
		NormType:  inferNormTypeFromElement(el),
		Role:      role,
		Mission:   mission,
		Condition: condition,
		Action:    action,
		Metadata:  metadata,
	}
}
