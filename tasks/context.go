package tasks

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/functions"
	"github.com/Nadi-System/nadi-core-sub000/network"
	"github.com/Nadi-System/nadi-core-sub000/parser"
)

// ErrExit is returned by Execute for an exit task.
var ErrExit = errors.New("exit")

// Context is everything a task runs against: the network, the function
// registry and the env variables.
type Context struct {
	Network  *network.Network
	Registry *functions.Registry
	Env      *Env
	Logger   hclog.Logger
	Out      io.Writer
	ErrOut   io.Writer
	Fs       afero.Fs
	Session  uuid.UUID
}

// NewContext creates a context for net and reg with an empty env. A nil net
// starts an empty network; a nil logger discards output. Functions write to
// io.Discard and read files from the OS until Out, ErrOut and Fs are replaced.
func NewContext(net *network.Network, reg *functions.Registry, logger hclog.Logger) *Context {
	if net == nil {
		net = network.New()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	session := uuid.New()
	return &Context{
		Network:  net,
		Registry: reg,
		Env:      NewEnv(),
		Logger:   logger.With("session", session.String()),
		Out:      io.Discard,
		ErrOut:   io.Discard,
		Fs:       afero.NewOsFs(),
		Session:  session,
	}
}

// Run executes tasks in order, writing each non-empty result to Out. It
// stops quietly at an exit task and at the first error otherwise.
func (c *Context) Run(tasks []parser.Task) error {
	for _, task := range tasks {
		out, err := c.Execute(task)
		if errors.Is(err, ErrExit) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", task, err)
		}
		if out != "" {
			fmt.Fprintln(c.Out, out)
		}
	}
	return nil
}

// Execute runs one task and returns the text to display.
func (c *Context) Execute(task parser.Task) (string, error) {
	c.Logger.Debug("executing task", "task", task.String())
	switch task.Kind {
	case parser.TaskEnv:
		return c.executeEnv(task)
	case parser.TaskNetwork:
		return c.executeNetwork(task)
	case parser.TaskNode:
		return c.executeNode(task)
	case parser.TaskHelp:
		return c.help(task.HelpKeyword, task.HelpName)
	case parser.TaskExit:
		return "", ErrExit
	}
	return "", fmt.Errorf("unknown task kind %d", task.Kind)
}

func (c *Context) executeEnv(task parser.Task) (string, error) {
	switch {
	case task.Input.Kind == parser.InputNone && task.Attribute == "":
		var lines []string
		for k, v := range c.Env.Snapshot().All() {
			lines = append(lines, attrs.TableKey(k)+" = "+v.String())
		}
		return strings.Join(lines, "\n"), nil

	case task.Input.Kind == parser.InputNone:
		v, ok := c.Env.Get(task.Attribute)
		if !ok {
			return "", fmt.Errorf("env variable %s doesn't exist", task.Attribute)
		}
		return v.String(), nil

	case task.Attribute == "":
		ret, err := c.callStatement(scope{}, task.Input)
		if err != nil {
			return "", err
		}
		return display(ret), nil
	}

	v, err := c.value(scope{}, task.Input)
	if err != nil {
		return "", err
	}
	return "", c.Env.Set(task.Attribute, v)
}

func (c *Context) executeNetwork(task parser.Task) (string, error) {
	sc := scope{network: true, prop: task.Propagation}
	switch {
	case task.Input.Kind == parser.InputNone && task.Attribute == "":
		return strings.TrimSuffix(c.Network.String(), "\n"), nil

	case task.Input.Kind == parser.InputNone:
		v, ok := c.Network.Attr(task.Attribute)
		if !ok {
			return "", fmt.Errorf("network: %w: %s", network.ErrNoAttribute, task.Attribute)
		}
		return v.String(), nil

	case task.Attribute == "":
		ret, err := c.callStatement(sc, task.Input)
		if err != nil {
			return "", err
		}
		return display(ret), nil
	}

	v, err := c.value(sc, task.Input)
	if err != nil {
		return "", err
	}
	return "", c.Network.SetAttr(task.Attribute, v)
}

func (c *Context) executeNode(task parser.Task) (string, error) {
	nodes, err := c.Network.Select(task.Propagation, c.evaluator(task.Propagation))
	if err != nil {
		return "", err
	}
	c.Logger.Trace("selected nodes", "propagation", task.Propagation.String(), "count", len(nodes))

	var (
		lines  []string
		result *multierror.Error
	)
	for _, n := range nodes {
		sc := scope{node: n}
		switch {
		case task.Input.Kind == parser.InputNone && task.Attribute == "":
			lines = append(lines, n.Name())

		case task.Input.Kind == parser.InputNone:
			if v, ok := n.Attr(task.Attribute); ok {
				lines = append(lines, n.Name()+" = "+v.String())
			}

		case task.Attribute == "":
			ret, err := c.callStatement(sc, task.Input)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", n.Name(), err))
				continue
			}
			if v, ok := ret.Get(); ok {
				lines = append(lines, n.Name()+" = "+v.String())
			}

		default:
			v, err := c.value(sc, task.Input)
			if err == nil {
				err = n.SetAttr(task.Attribute, v)
			}
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", n.Name(), err))
			}
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		result.ErrorFormat = nodeErrorFormat
		c.Logger.Warn("node task failed", "task", task.String(), "failures", len(result.Errors))
		return strings.Join(lines, "\n"), err
	}
	return strings.Join(lines, "\n"), nil
}

// nodeErrorFormat shows a single failure as is and lists several one per line.
func nodeErrorFormat(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = "\t" + err.Error()
	}
	return fmt.Sprintf("%d nodes failed:\n%s", len(errs), strings.Join(lines, "\n"))
}

func display(ret functions.Ret) string {
	if v, ok := ret.Get(); ok {
		return v.String()
	}
	return ""
}
