package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// envelope wraps every JSON result.
type envelope struct {
	RunID       string      `json:"runId"`
	Command     string      `json:"command"`
	ProjectID   string      `json:"projectId,omitempty"`
	ProjectName string      `json:"projectName,omitempty"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Result      interface{} `json:"result"`
}

// emit writes result wrapped in an envelope, or only the --query match.
func (s *session) emit(cmd *cobra.Command, result interface{}) error {
	env := envelope{
		RunID:       uuid.New().String(),
		Command:     cmd.Name(),
		GeneratedAt: time.Now().UTC(),
		Result:      result,
	}
	if s.pf != nil {
		env.ProjectID = s.pf.ID
		env.ProjectName = s.pf.Name
	}

	var out interface{} = env
	if s.query != "" {
		match, err := query(env, s.query)
		if err != nil {
			return err
		}
		out = match
	}
	return s.writeJSON(cmd, out)
}

func (s *session) writeJSON(cmd *cobra.Command, v interface{}) error {
	var (
		data []byte
		err  error
	)
	if s.compact {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// query evaluates a JSONPath expression against v's JSON form.
func query(v interface{}, path string) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode for query: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode for query: %w", err)
	}
	match, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", path, err)
	}
	return match, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
