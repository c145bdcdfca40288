// Package form holds the marketplace's form variants, their validation
// rules and the state container the UI drives.
//
// Each variant (LoginForm, SignupForm, ProductForm) is a plain struct with
// a declared table of Field descriptors. Fields are addressed by typed Name
// constants; nested groups use dotted names such as "endereco.cep" but are
// resolved by switch statements, never by splitting strings at runtime.
//
// Snapshots are values. Every With* method returns a new snapshot and
// copies any slice it touches, so a snapshot handed to the submission
// pipeline cannot change underneath it.
//
// Validation is total: every rule runs, and the resulting Errors map has an
// entry only for fields that failed.
//
//	s := form.NewState(form.NewProductForm(), preview.NewPool())
//	defer s.Close()
//	s.OnFieldChange(form.ProductPreco, "1234,5") // displays "R$ 1.234,5"
//	s.OnMultiSelectToggle(form.ProductMateriais, "Madeira", true)
//	if errs := s.Validate(); !errs.Valid() {
//	    fmt.Println(errs)
//	}
package form
