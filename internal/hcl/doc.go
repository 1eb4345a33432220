// Package hcl loads recipes written in HCL.
//
//	project "existing" {
//	  arguments {
//	    project_id = 11
//	  }
//	}
//
//	action "start_test_run" {
//	  arguments = {
//	    name = "run_a"
//	  }
//	}
//
// Blocks keep their file order. Arguments may be a nested block or an object
// attribute, and expressions may call env("NAME") to read the environment.
package hcl
