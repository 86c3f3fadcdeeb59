// Package testfixtures holds small, hand-written source snippets shared by
// extractor tests across languages, so each test package isn't carrying
// its own copy of the same shapes (named import, barrel re-export,
// decorated method, dynamic call).
package testfixtures

// TSNamedImportAndCall exercises a named import consumed by a direct call
// in the importing file.
const TSNamedImportAndCall = `
import { foo } from './b';

export function main() {
	foo();
}
`

// TSBarrelIndex and TSBarrelImpl together form a barrel re-export chain:
// the index file re-exports a name it never defines itself.
const TSBarrelIndex = `export { foo } from './impl';`

const TSBarrelImpl = `
export function foo() {
	return 1;
}
`

// TSDynamicCall exercises a call dispatched through .call(), whose callee
// is a bound reference rather than a direct name.
const TSDynamicCall = `
const h = obj;
h.call(ctx, 1);
`

// TSComputedLiteralCall exercises a computed member call with a
// string-literal property.
const TSComputedLiteralCall = `
obj["run"](x);
`

// TSClassHierarchy exercises an overridden method on a subclass that
// calls up to its parent implementation.
const TSClassHierarchy = `
class Parent {
	m() {}
}

class Child extends Parent {
	m() {
		super.m();
	}
}
`

// PythonClassAndDecorator exercises method naming, decorators, and
// attribute-call extraction together.
const PythonClassAndDecorator = `
import functools

class Greeter:
	@functools.lru_cache
	def greet(self, name):
		return self.format(name)

	def format(self, name):
		return "hello " + name
`

// PythonRelativeImport exercises "from . import x" and "from ..pkg import y".
const PythonRelativeImport = `
from . import sibling
from ..pkg import helper

def run():
	sibling.go()
	helper()
`

// HCLModuleWithSource exercises the module-block import path and a
// resource block with labels.
const HCLModuleWithSource = `
module "network" {
	source = "./modules/network"
}

resource "aws_instance" "web" {
	ami = "ami-123"
}
`
