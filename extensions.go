package glprint

import (
	"slices"
)

// PrivilegedExtensions are the only extensions classified as privileged.
// The classification is fixed; it is never inferred from naming patterns.
var PrivilegedExtensions = []string{ExtDebugRendererInfo, ExtDebugShaders}

// Record keys for the extension partition.
const (
	KeyOrdinaryExtensions   = "SUPPORTED_WEBGl_EXTENSIONS"
	KeyPrivilegedExtensions = "SUPPORTED_PRIVILEGED_EXTENSIONS"
)

// Version2Functions are the WebGL 2 entry points checked on version-2
// contexts, in record order.
var Version2Functions = []string{
	"copyBufferSubData",
	"getBufferSubData",
	"blitFramebuffer",
	"framebufferTextureLayer",
	"getInternalformatParameter",
	"invalidateFramebuffer",
	"invalidateSubFramebuffer",
	"readBuffer",
	"renderbufferStorageMultisample",
	"texStorage2D",
	"texStorage3D",
	"texImage3D",
	"texSubImage3D",
	"copyTexSubImage3D",
	"compressedTexImage3D",
	"compressedTexSubImage3D",
	"getFragDataLocation",
	"uniform1ui",
	"uniform2ui",
	"uniform3ui",
	"uniform4ui",
	"uniform1uiv",
	"uniform2uiv",
	"uniform3uiv",
	"uniform4uiv",
	"uniformMatrix2x3fv",
	"uniformMatrix3x2fv",
	"uniformMatrix2x4fv",
	"uniformMatrix4x2fv",
	"uniformMatrix3x4fv",
	"uniformMatrix4x3fv",
	"vertexAttribI4i",
	"vertexAttribI4iv",
	"vertexAttribI4ui",
	"vertexAttribI4uiv",
	"vertexAttribIPointer",
	"vertexAttribDivisor",
	"drawArraysInstanced",
	"drawElementsInstanced",
	"drawRangeElements",
	"drawBuffers",
	"clearBufferiv",
	"clearBufferuiv",
	"clearBufferfv",
	"clearBufferfi",
	"createQuery",
	"deleteQuery",
	"isQuery",
	"beginQuery",
	"endQuery",
	"getQuery",
	"getQueryParameter",
	"createSampler",
	"deleteSampler",
	"isSampler",
	"bindSampler",
	"samplerParameteri",
	"samplerParameterf",
	"getSamplerParameter",
	"fenceSync",
	"isSync",
	"deleteSync",
	"clientWaitSync",
	"waitSync",
	"getSyncParameter",
	"createTransformFeedback",
	"deleteTransformFeedback",
	"isTransformFeedback",
	"bindTransformFeedback",
	"beginTransformFeedback",
	"endTransformFeedback",
	"transformFeedbackVaryings",
	"getTransformFeedbackVarying",
	"pauseTransformFeedback",
	"resumeTransformFeedback",
	"bindBufferBase",
	"bindBufferRange",
	"getIndexedParameter",
	"getUniformIndices",
	"getActiveUniforms",
	"getUniformBlockIndex",
	"getActiveUniformBlockParameter",
	"getActiveUniformBlockName",
	"uniformBlockBinding",
	"createVertexArray",
	"deleteVertexArray",
	"isVertexArray",
	"bindVertexArray",
}

// ExtensionSet is the partition of a context's supported extensions.
type ExtensionSet struct {
	Ordinary   []string
	Privileged []string
}

// IsPrivileged reports whether name is one of the privileged extensions.
func IsPrivileged(name string) bool {
	return slices.Contains(PrivilegedExtensions, name)
}

// EnumerateExtensions queries q's supported extensions and partitions them.
// ok is false when the query failed or returned nothing, which callers must
// keep distinct from a context with zero extensions.
//
// Unless hostOrder is set, both partitions are sorted so the same set of
// names always serializes the same way.
func EnumerateExtensions(q Querier, hostOrder bool) (set ExtensionSet, ok bool) {
	names, err := q.SupportedExtensions()
	if err != nil {
		Logger().Debug("glprint: unable to get extensions", "err", err)
		return ExtensionSet{}, false
	}
	if len(names) == 0 {
		return ExtensionSet{}, false
	}

	set.Ordinary = make([]string, 0, len(names))
	set.Privileged = make([]string, 0, len(PrivilegedExtensions))
	for _, name := range names {
		if IsPrivileged(name) {
			set.Privileged = append(set.Privileged, name)
		} else {
			set.Ordinary = append(set.Ordinary, name)
		}
	}
	if !hostOrder {
		slices.Sort(set.Ordinary)
		slices.Sort(set.Privileged)
	}
	return set, true
}

// RecordExtensions stores the partition of q's extensions in the params
// subject. A failed query records "n/a" under both keys.
func RecordExtensions(q Querier, hostOrder bool, record *Record) {
	set, ok := EnumerateExtensions(q, hostOrder)
	if !ok {
		record.Add(SubjectParams, KeyOrdinaryExtensions, NotAvailable)
		record.Add(SubjectParams, KeyPrivilegedExtensions, NotAvailable)
		return
	}
	record.Add(SubjectParams, KeyOrdinaryExtensions, set.Ordinary)
	record.Add(SubjectParams, KeyPrivilegedExtensions, set.Privileged)
}

// RecordFunctions stores, for version-2 contexts, whether each entry point
// in Version2Functions is exposed. Lower versions record nothing.
func RecordFunctions(q Querier, version int, record *Record) {
	if version != 2 {
		return
	}
	for _, name := range Version2Functions {
		record.Add(SubjectFunctions, name, q.HasFunction(name))
	}
}
