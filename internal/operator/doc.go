// Package operator defines the nodes of an evaluable formula.
//
// Every name, call and symbol in a formula resolves to a Class registered in
// internal/registry. A Class validates the number of operands before it
// builds an Operator, so an instance never exists with the wrong arity.
//
// Evaluation is two walks over the tree. Prepare(ctx) runs first and is the
// only place an operator may block, e.g. to refresh a feed; it visits the
// operands before the node itself. Compute() is synchronous and may be called
// any number of times after a completed Prepare. Prepare may be called again
// before every computation, so operator authors must tolerate repeated calls.
//
// Authoring an operator means embedding one of the family types, which fix
// the arity and name the operands:
//
//	type add struct{ operator.Binary }
//
//	func (o *add) Compute() (cty.Value, error) {
//		l, r, err := o.ComputedLeftRight()
//		...
//	}
//
//	var Add = &operator.Class{
//		Name:   "Add",
//		Family: operator.FamilyBinary,
//		Build:  func(b operator.Base) operator.Operator { return &add{operator.Binary{Base: b}} },
//	}
package operator
