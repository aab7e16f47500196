package core

// Epsilon guards ray origins against re-hitting the surface they leave
const Epsilon = 1e-4

// DefaultRefractiveIndex is used for transmissive surfaces that do not set one
const DefaultRefractiveIndex = 1.5
