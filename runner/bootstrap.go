package runner

import (
	"strconv"

	"github.com/flosch/pongo2/v6"
)

// SourceFD is the descriptor on which the child reads the patched source.
// It is the first of [exec.Cmd.ExtraFiles].
const SourceFD = 3

// The bootstrap runs as "python -c BOOTSTRAP FILENAME ARGS...". It replaces
// __main__ with a fresh module, defines the bindings in it, and executes the
// source read from SourceFD compiled under FILENAME the way the interpreter
// runs a script given on its command line. The source is compiled as bytes
// so a BOM or coding declaration is honored. Traceback entries for the
// bootstrap's own frame are dropped before sys.excepthook sees them.
const bootstrapSource = `import sys


def _wrapsetup_main():
    import os
    import types

    with os.fdopen({{ fd }}, "rb") as f:
        source = f.read()

    filename = sys.argv[1]
    path = os.path.abspath(filename)

    main = types.ModuleType("__main__")
    main.__file__ = path
    main.__builtins__ = __builtins__
    sys.modules["__main__"] = main
    namespace = main.__dict__

{% for b in bindings %}    exec(compile({{ b.Literal|safe }}, "<{{ b.Name|safe }}>", "exec"), namespace)
{% endfor %}
    sys.argv = [filename] + sys.argv[2:]
    sys.path[0] = os.path.dirname(path)

    try:
        code = compile(source, path, "exec")
        del source
        exec(code, namespace)
    except (SystemExit, KeyboardInterrupt):
        raise
    except BaseException:
        etype, value, tb = sys.exc_info()
        sys.excepthook(etype, value, tb.tb_next)
        sys.exit(1)


_wrapsetup_main()
`

var bootstrapTemplate = pongo2.Must(pongo2.FromString(bootstrapSource))

type bootBinding struct {
	Name    string
	Literal string
}

// Bootstrap renders the program that defines bindings and runs the patched
// script.
func Bootstrap(bindings []Binding) (string, error) {
	bb := make([]bootBinding, len(bindings))
	for i, b := range bindings {
		bb[i] = bootBinding{Name: b.Name, Literal: strconv.QuoteToASCII(b.Source)}
	}

	out, err := bootstrapTemplate.Execute(pongo2.Context{
		"bindings": bb,
		"fd":       SourceFD,
	})
	if err != nil {
		return "", ErrBootstrap.Wrap(err)
	}

	return out, nil
}
