package storage

func schemaBucketCreate() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bucket_name": map[string]any{
				"type":        "string",
				"description": "Name of the S3 bucket to create",
			},
		},
		"required": []string{"bucket_name"},
	}
}

func schemaBucketList() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func schemaBucketDelete() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bucket_name": map[string]any{
				"type":        "string",
				"description": "Name of the S3 bucket to delete",
			},
		},
		"required": []string{"bucket_name"},
	}
}

func schemaObjectUpload() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bucket_name": map[string]any{
				"type":        "string",
				"description": "Name of the S3 bucket",
			},
			"object_key": map[string]any{
				"type":        "string",
				"description": "Key/path of the object in the bucket",
			},
			"file_content": map[string]any{
				"type":        "string",
				"description": "Base64 encoded file content for upload",
			},
		},
		"required": []string{"bucket_name", "object_key", "file_content"},
	}
}

func schemaObjectDelete() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bucket_name": map[string]any{
				"type":        "string",
				"description": "Name of the S3 bucket",
			},
			"object_key": map[string]any{
				"type":        "string",
				"description": "Key/path of the object to delete",
			},
		},
		"required": []string{"bucket_name", "object_key"},
	}
}

func schemaObjectList() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bucket_name": map[string]any{
				"type":        "string",
				"description": "Name of the S3 bucket",
			},
		},
		"required": []string{"bucket_name"},
	}
}

func schemaObjectRead() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bucket_name": map[string]any{
				"type":        "string",
				"description": "Name of the S3 bucket",
			},
			"object_key": map[string]any{
				"type":        "string",
				"description": "Key/path of the object to read",
			},
		},
		"required": []string{"bucket_name", "object_key"},
	}
}
