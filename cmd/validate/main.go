package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/life-engine/pkg/catalog"
	"github.com/jwebster45206/life-engine/pkg/conditions"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <catalog.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &CatalogValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Catalog file is valid!")
}

type CatalogValidator struct {
	errors []string
}

func (v *CatalogValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	// Validate filename format
	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("catalog file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidCatalogFilename(nameWithoutExt) {
		return fmt.Errorf("catalog filename '%s' must be lowercase snake_case (e.g., my_catalog.json, not my-catalog.json or MyCatalog.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var cat catalog.Catalog
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&cat); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	cat.Normalize()
	if err := cat.Validate(); err != nil {
		return fmt.Errorf("validation errors in %s: %w", filename, err)
	}

	v.validateCatalog(&cat)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *CatalogValidator) validateCatalog(cat *catalog.Catalog) {
	for i := range cat.Events {
		v.validateEvent(&cat.Events[i])
	}
	for i := range cat.Endings {
		v.validateEnding(&cat.Endings[i])
	}
	for _, ch := range cat.Characters {
		v.validateIDFormat("character ID", ch.ID)
	}
}

func (v *CatalogValidator) validateEvent(ev *catalog.Event) {
	v.validateIDFormat("event ID", ev.ID)
	v.validateConditions(ev.Triggers, fmt.Sprintf("event %s triggers", ev.ID))

	for i := range ev.Options {
		opt := &ev.Options[i]
		v.validateIDFormat("option ID", opt.ID)
		v.validateConditions(opt.Visibility, fmt.Sprintf("event %s option %s visibility", ev.ID, opt.ID))
		v.validateConditions(opt.Availability, fmt.Sprintf("event %s option %s availability", ev.ID, opt.ID))
		for _, eff := range opt.Effects {
			v.validateConditions(eff.If, fmt.Sprintf("event %s option %s effect on %s", ev.ID, opt.ID, eff.Attribute))
			if eff.Value.IsRange() && *eff.Value.Min > *eff.Value.Max {
				v.addError(fmt.Sprintf("event %s option %s: effect range min %d exceeds max %d", ev.ID, opt.ID, *eff.Value.Min, *eff.Value.Max))
			}
		}
	}
}

func (v *CatalogValidator) validateEnding(en *catalog.Ending) {
	v.validateIDFormat("ending ID", en.ID)
	for _, group := range en.Unlocks {
		v.validateConditions(group.All, fmt.Sprintf("ending %s unlocks", en.ID))
	}
	for _, mod := range en.Modifiers {
		v.validateConditions(mod.If, fmt.Sprintf("ending %s modifier", en.ID))
	}
}

func (v *CatalogValidator) validateConditions(conds []conditions.Condition, context string) {
	for _, c := range conds {
		switch c.Kind {
		case conditions.KindAttribute, conditions.KindFlag, conditions.KindRandom,
			conditions.KindTime, conditions.KindProbability, conditions.KindEventHistory,
			conditions.KindCharacter, conditions.KindEventTriggered:
		case conditions.KindCombination:
			v.validateConditions(c.All, context)
		default:
			v.addError(fmt.Sprintf("%s: unknown condition kind '%s'", context, c.Kind))
		}

		if (c.Kind == conditions.KindRandom || c.Kind == conditions.KindProbability) &&
			(c.Probability < 0 || c.Probability > 1) {
			v.addError(fmt.Sprintf("%s: probability %v out of [0, 1]", context, c.Probability))
		}
		if c.Kind == conditions.KindAttribute && c.Attribute == "" {
			v.addError(fmt.Sprintf("%s: attribute condition without attribute name", context))
		}
		if c.Kind == conditions.KindFlag && c.Flag == "" {
			v.addError(fmt.Sprintf("%s: flag condition without flag name", context))
		}
	}
}

func (v *CatalogValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}

	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *CatalogValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var (
	validIDRegex       = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
	validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

func isValidCatalogFilename(name string) bool {
	// Allow 'x.' prefix for experimental catalogs
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
