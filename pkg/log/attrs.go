package log

import "log/slog"

func WorkflowID[T ~string](id T) slog.Attr {
	return slog.String("workflow_id", string(id))
}

func Intent[T ~string](intent T) slog.Attr {
	return slog.String("intent", string(intent))
}

func State[T ~string](state T) slog.Attr {
	return slog.String("state", string(state))
}

func ToolName[T ~string](name T) slog.Attr {
	return slog.String("tool_name", string(name))
}

func Goal(goal string) slog.Attr {
	return slog.String("goal", goal)
}

// Mode reports whether a component runs against external services
func Mode(offline bool) slog.Attr {
	if offline {
		return slog.String("mode", "offline")
	}
	return slog.String("mode", "connected")
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}

func ErrorString(msg string) slog.Attr {
	return slog.String("error", msg)
}
