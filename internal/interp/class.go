package interp

import "github.com/arlox/arlox/internal/ast"

// execClassDecl implements spec.md §4.4.6: evaluate the optional
// superclass, build method Function values (tagging the initializer by
// name-equals-class-name), and bind the class into the current scope.
func (in *Interpreter) execClassDecl(s *ast.ClassStmt) error {
	var super *Class
	if s.Superclass != nil {
		v, ok := in.env.Get(s.Superclass.Name.Lexeme)
		if !ok {
			return rtErr(s.Superclass.Name, "undefined superclass '"+s.Superclass.Name.Lexeme+"'")
		}
		super, ok = v.(*Class)
		if !ok {
			return rtErr(s.Superclass.Name, "superclass must be a class")
		}
	}

	class := NewClass(s.Name.Lexeme, super)
	in.env.Define(s.Name.Lexeme, KindAny, class)

	for _, m := range s.Methods {
		fn := &Function{
			FnName:     m.Name.Lexeme,
			Params:     m.Params,
			Body:       m.Body,
			Closure:    in.env,
			Kind:       FuncMethod,
			IsInit:     m.Name.Lexeme == s.Name.Lexeme,
			OwnerClass: class,
		}
		class.Methods[m.Name.Lexeme] = fn
	}

	return nil
}
