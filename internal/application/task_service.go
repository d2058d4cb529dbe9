package application

import (
	"context"
	"errors"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tdkit/agentaudit/internal/domain"
	"github.com/tdkit/agentaudit/internal/domain/task"
)

// ErrTaskRunnerUnavailable is returned by Forward when `td version` fails.
var ErrTaskRunnerUnavailable = errors.New("td is not available")

// TaskService forwards td actions for a project directory.
type TaskService struct {
	runner  domain.TaskRunner
	locator domain.WorktreeLocator
	root    string
	logger  *zap.SugaredLogger
}

// NewTaskService creates a TaskService rooted at root. locator may be nil,
// in which case only root is used to relativize file arguments.
func NewTaskService(runner domain.TaskRunner, locator domain.WorktreeLocator, root string, logger *zap.SugaredLogger) *TaskService {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &TaskService{runner: runner, locator: locator, root: root, logger: logger}
}

// Root returns the absolute project root.
func (s *TaskService) Root() string { return s.root }

// Forward builds the argv for action, checks that td is available and runs
// it. Errors from td are returned unwrapped so their text is td's own output.
func (s *TaskService) Forward(ctx context.Context, action task.Action, args task.Args) (string, error) {
	argv, err := action.Argv(args, s.roots()...)
	if err != nil {
		return "", err
	}
	if !s.runner.Available(ctx) {
		return "", ErrTaskRunnerUnavailable
	}

	s.logger.Debugw("forwarding td action", "tool", action.ToolName(), "argv", argv)
	return s.runner.Run(ctx, argv)
}

// roots lists the directories file arguments are relativized against.
func (s *TaskService) roots() []string {
	roots := []string{s.root}
	if s.locator == nil {
		return roots
	}
	wt, err := s.locator.WorktreeRoot(s.root)
	if err != nil {
		s.logger.Debugw("no git worktree", "root", s.root, "error", err)
		return roots
	}
	if wt != s.root {
		roots = append(roots, wt)
	}
	return roots
}
