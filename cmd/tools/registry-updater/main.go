// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"testcase-ranker/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	publishCmd := flag.NewFlagSet("publish", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	publishPath := publishCmd.String("path", defaultRegistryPath, "Path to registry file")

	updatePath := updateCmd.String("path", defaultRegistryPath, "Path to registry file")
	id := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (timeout, retries, version, description)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "publish":
		publishCmd.Parse(os.Args[2:])
		if err := registry.Save(registry.Default(), *publishPath); err != nil {
			fmt.Printf("Error publishing registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Published %d activities to %s\n", len(registry.TaskTypes), *publishPath)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *id == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*updatePath, *id, *field, *value); err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*validatePath)
		if err == nil {
			err = reg.Check()
		}
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))

	default:
		help()
	}
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var activity *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			activity = &reg.Activities[i]
			break
		}
	}
	if activity == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "timeout":
		activity.Timeout = value
	case "version":
		activity.Version = value
	case "description":
		activity.Description = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	if err := reg.Check(); err != nil {
		return err
	}
	return registry.Save(reg, path)
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  publish   Write the built-in activity definitions to a registry file
  update    Change the timeout, retries, version or description of an activity
  validate  Check a registry file covers every worker task type

Examples:
  registry-updater publish -path configs/activity-registry.json
  registry-updater update -id export-test-cases -field timeout -value 60s
  registry-updater validate -path configs/activity-registry.json`)
}
