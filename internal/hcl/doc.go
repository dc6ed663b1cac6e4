// Package hcl provides the HCL implementation of config.Decoder and writes
// run reports as HCL documents.
//
// Settings files are evaluated with a small context: the variable `cpus`
// (the number of logical CPUs) and the functions min, max, pow and floor, so
// a file may say `epsilon = pow(10, -4)`.
package hcl
