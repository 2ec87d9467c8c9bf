package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/traininggrounds/internal/briefing"

	"gopkg.in/yaml.v3"
)

// loadReports reads weekly reports from a JSON or YAML file. The file holds either
// a plain list or the coach api envelope {"reports": [...]}.
func loadReports(path string) ([]briefing.WeeklyReport, error) {
	return loadList[briefing.WeeklyReport](path, "reports")
}

// loadWorkouts is loadReports for workouts, envelope key "workouts".
func loadWorkouts(path string) ([]briefing.WorkoutRecord, error) {
	return loadList[briefing.WorkoutRecord](path, "workouts")
}

func loadList[T any](path, envelopeKey string) ([]T, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var list []T
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		list, err = decodeJSONList[T](data, envelopeKey)
	case ".yaml", ".yml":
		list, err = decodeYAMLList[T](data, envelopeKey)
	default:
		return nil, fmt.Errorf("unsupported file type [%s], use .json, .yaml or .yml", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return list, nil
}

func decodeJSONList[T any](data []byte, envelopeKey string) ([]T, error) {
	var list briefing.LenientList[T]
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	raw, ok := envelope[envelopeKey]
	if !ok {
		return nil, fmt.Errorf("missing %q key", envelopeKey)
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func decodeYAMLList[T any](data []byte, envelopeKey string) ([]T, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}

	listNode := doc.Content[0]
	switch listNode.Kind {
	case yaml.SequenceNode:
	case yaml.MappingNode:
		var envelope map[string]yaml.Node
		if err := listNode.Decode(&envelope); err != nil {
			return nil, err
		}
		node, ok := envelope[envelopeKey]
		if !ok {
			return nil, fmt.Errorf("missing %q key", envelopeKey)
		}
		if node.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%q is not a list", envelopeKey)
		}
		listNode = &node
	default:
		return nil, fmt.Errorf("expected a list or a mapping, got yaml kind %d", listNode.Kind)
	}

	list := make([]T, 0, len(listNode.Content))
	for _, elem := range listNode.Content {
		var item T
		if err := elem.Decode(&item); err != nil {
			item = decodeYAMLViaJSON[T](elem)
		}
		list = append(list, item)
	}
	return list, nil
}

// decodeYAMLViaJSON gives a record yaml could not decode the json record leniency,
// falling back to the empty record.
func decodeYAMLViaJSON[T any](node *yaml.Node) T {
	var list briefing.LenientList[T]
	var generic any
	if err := node.Decode(&generic); err == nil {
		if asJSON, err := json.Marshal([]any{generic}); err == nil {
			_ = json.Unmarshal(asJSON, &list)
		}
	}
	if len(list) == 1 {
		return list[0]
	}
	var empty T
	return empty
}
