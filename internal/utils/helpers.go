package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/ideascout/internal/entity"
)

// ToPBStruct converts any JSON-encodable value into a protobuf Struct using
// its JSON field names.
func ToPBStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return structpb.NewStruct(m)
}

// ToPBJobStatus renders a status view as {jobId, status, progress, data, result, error}.
func ToPBJobStatus(v entity.JobStatusView) (*structpb.Struct, error) {
	return ToPBStruct(v)
}

// JobInputFromPB reads keyword/location/budget string fields; anything else is ignored.
func JobInputFromPB(s *structpb.Struct) entity.JobInput {
	return entity.JobInput{
		Keyword:  strOrEmpty(s, "keyword"),
		Location: strOrEmpty(s, "location"),
		Budget:   strOrEmpty(s, "budget"),
	}
}

// JobStatusFromPB decodes a status Struct back into a view.
func JobStatusFromPB(s *structpb.Struct) (entity.JobStatusView, error) {
	var v entity.JobStatusView
	b, err := s.MarshalJSON()
	if err != nil {
		return v, fmt.Errorf("encode: %w", err)
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("decode: %w", err)
	}
	return v, nil
}

func strOrEmpty(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(v.GetStringValue())
}
