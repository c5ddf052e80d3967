package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将一帧的排版结果（折行、包围盒）输出为 JSON，便于调试模板锚点。
func WriteDebugJSON(frame *Frame, path string) error {
	if frame == nil {
		return nil
	}
	data, err := json.MarshalIndent(frame, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
