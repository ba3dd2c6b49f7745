package compute

func schemaInstanceList() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filters": map[string]any{
				"type":        "array",
				"description": "Optional filters for the instance list",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"Name": map[string]any{
							"type":        "string",
							"description": "Filter name (e.g. instance-state-name)",
						},
						"Values": map[string]any{
							"type":        "array",
							"description": "Values to match for this filter",
							"items":       map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	}
}

func schemaInstanceDescribe() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"instance_ids": map[string]any{
				"type":        "array",
				"description": "List of EC2 instance IDs to describe",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required": []string{"instance_ids"},
	}
}

func schemaInstanceStart() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"instance_ids": map[string]any{
				"type":        "array",
				"description": "List of EC2 instance IDs to start",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required": []string{"instance_ids"},
	}
}

func schemaInstanceStop() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"instance_ids": map[string]any{
				"type":        "array",
				"description": "List of EC2 instance IDs to stop",
				"items":       map[string]any{"type": "string"},
			},
			"force": map[string]any{
				"type":        "boolean",
				"description": "Force stop the instances",
				"default":     false,
			},
		},
		"required": []string{"instance_ids"},
	}
}
