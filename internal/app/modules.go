package app

import (
	"io"

	"github.com/specialistvlad/graphcompiler/internal/registry"
	"github.com/specialistvlad/graphcompiler/modules/arith"
	"github.com/specialistvlad/graphcompiler/modules/constant"
	"github.com/specialistvlad/graphcompiler/modules/env_vars"
	"github.com/specialistvlad/graphcompiler/modules/http_request"
	"github.com/specialistvlad/graphcompiler/modules/print"
)

// coreModules is the list of function modules compiled into the graphc
// binary. print writes to out.
func coreModules(out io.Writer) []registry.Module {
	return []registry.Module{
		&arith.Module{},
		&constant.Module{},
		&env_vars.Module{},
		&http_request.Module{},
		&print.Module{Out: out},
	}
}
